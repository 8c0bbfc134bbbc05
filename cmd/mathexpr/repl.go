package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/mathexpr"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive read-eval-print loop",
	Long: `repl reads expressions from stdin one line at a time, evaluating each
against a Context shared across the session, echoing ivy's run/run.go
read-eval-print loop translated to explicit error returns instead of a
top-level panic/recover.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := newConfig()
		sessionID := uuid.NewString()
		log := cfg.Logger().Sugar()
		log.Infow("repl session started", "session_id", sessionID)

		c := mathexpr.NewContext()
		scanner := bufio.NewScanner(os.Stdin)
		fmt.Fprint(os.Stdout, "mathexpr> ")
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				fmt.Fprint(os.Stdout, "mathexpr> ")
				continue
			}
			res, err := mathexpr.QuickEval(line, c, cfg)
			if err != nil {
				log.Infow("evaluation failed", "session_id", sessionID, "input", line, "error", err.Error())
				fmt.Fprintln(os.Stderr, err)
				fmt.Fprint(os.Stdout, "mathexpr> ")
				continue
			}
			for _, v := range res {
				fmt.Fprintln(os.Stdout, v.String())
			}
			fmt.Fprint(os.Stdout, "mathexpr> ")
		}
		fmt.Fprintln(os.Stdout)
		return scanner.Err()
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
