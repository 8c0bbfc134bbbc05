// Package main implements the mathexpr command-line interface: eval,
// solve and repl subcommands built on github.com/spf13/cobra, echoing
// ivy.go's flag-driven main in spirit but with the flag library and
// subcommand structure conneroisu/gix's go.mod and DataDog/datadog-agent's
// go.mod both pull in instead of the bare "flag" package.
package main

import (
	"fmt"
	"os"

	"github.com/anthropics/mathexpr/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	highPrec     bool
	rowMajor     bool
	explosionCap int
	verbose      bool
)

func newConfig() *config.Config {
	var opts []config.Option
	if highPrec {
		opts = append(opts, config.WithHighPrec())
	}
	if rowMajor {
		opts = append(opts, config.WithRowMajor())
	}
	if explosionCap > 0 {
		opts = append(opts, config.WithExplosionCap(explosionCap))
	}
	logger := zap.NewNop()
	if verbose {
		l, err := zap.NewDevelopment()
		if err == nil {
			logger = l
		}
	}
	opts = append(opts, config.WithLogger(logger))
	return config.New(opts...)
}

var rootCmd = &cobra.Command{
	Use:   "mathexpr",
	Short: "Parse, evaluate and solve scalar/vector/matrix expressions",
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&highPrec, "high-prec", false, "solver precision exponent 13 instead of 8")
	rootCmd.PersistentFlags().BoolVar(&rowMajor, "row-major", false, "matrix literal outer sequence is rows instead of columns")
	rootCmd.PersistentFlags().IntVar(&explosionCap, "explosion-cap", 0, "override the cartesian-expansion size cap (0 = default)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable structured debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
