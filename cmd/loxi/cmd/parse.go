package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sdcook/loxi/internal/parser"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a single expression and print its fully-parenthesized AST",
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

		fmt.Println(expr.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}
