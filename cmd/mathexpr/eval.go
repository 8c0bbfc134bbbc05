package main

import (
	"fmt"
	"strings"

	"github.com/anthropics/mathexpr"
	"github.com/spf13/cobra"
)

var roundDecimals int

var evalCmd = &cobra.Command{
	Use:   "eval [expression]",
	Short: "Parse and evaluate a single expression, printing its Results",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := newConfig()
		c := mathexpr.NewContext()
		res, err := mathexpr.QuickEval(strings.Join(args, " "), c, cfg)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("round") {
			res = mathexpr.Round(res, roundDecimals)
		}
		for _, v := range res {
			fmt.Println(v.String())
		}
		return nil
	},
}

func init() {
	evalCmd.Flags().IntVar(&roundDecimals, "round", 0, "round every result to this many decimal places")
	rootCmd.AddCommand(evalCmd)
}
