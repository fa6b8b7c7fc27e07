package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sdcook/loxi/internal/interp"
	"github.com/sdcook/loxi/internal/parser"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <file>",
	Short: "Parse a single expression, evaluate it, and print the result",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		toks, reporter, err := scanFile(args[0])
		if err != nil {
			return exit(1, err)
		}

		p := parser.New(toks, reporter)
		expr := p.ParseExpression()
		if reporter.HadError() {
			return exit(65, nil)
		}

		it := interp.New(os.Stdout, nil)
		value, evalErr := it.EvalStandalone(expr)
		if evalErr != nil {
			reporter.Report(evalErr)
			return exit(70, evalErr)
		}

		fmt.Println(value.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(evaluateCmd)
}
