package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/mathexpr"
	"github.com/spf13/cobra"
)

var (
	solveRoundDecimals int
	solveDiagnostics   bool
)

var solveCmd = &cobra.Command{
	Use:   "solve [eq(...) expression]",
	Short: "Direct solver access: evaluate an eq(...) call and print every root",
	Long: `solve evaluates its argument as an eq(eq1, ..., eqm, x1, ..., xn) call,
printing one line per distinct root or root tuple found.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := newConfig()
		c := mathexpr.NewContext()
		text := strings.Join(args, " ")

		if !solveDiagnostics {
			res, err := mathexpr.QuickEval(text, c, cfg)
			if err != nil {
				return err
			}
			printSolveResults(cmd, res)
			return nil
		}

		node, err := mathexpr.Parse(text, cfg)
		if err != nil {
			return err
		}
		res, diag, err := mathexpr.EvaluateEqDiagnostics(node, c, cfg)
		if err != nil {
			return err
		}
		printSolveResults(cmd, res)
		if diag == nil {
			fmt.Fprintln(os.Stderr, "diagnostics: linear fast path used, no multi-start search performed")
			return nil
		}
		fmt.Fprintf(os.Stderr, "diagnostics: %d/%d seeds converged\n", diag.Converged, diag.SeedsTried)
		if diag.Failures != nil {
			fmt.Fprintf(os.Stderr, "diagnostics: seed failures: %s\n", diag.Failures)
		}
		return nil
	},
}

func printSolveResults(cmd *cobra.Command, res mathexpr.Results) {
	if cmd.Flags().Changed("round") {
		res = mathexpr.Round(res, solveRoundDecimals)
	}
	for _, v := range res {
		fmt.Println(v.String())
	}
}

func init() {
	solveCmd.Flags().IntVar(&solveRoundDecimals, "round", 0, "round every result to this many decimal places")
	solveCmd.Flags().BoolVar(&solveDiagnostics, "diagnostics", false, "print solver seed-convergence diagnostics to stderr")
	rootCmd.AddCommand(solveCmd)
}
