package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize <file>",
	Short: "Print the token stream for a Lox source file",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		toks, reporter, err := scanFile(args[0])
		if err != nil {
			return exit(1, err)
		}
		for _, tok := range toks {
			fmt.Println(tok.String())
		}
		if reporter.HadError() {
			return exit(65, nil)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenizeCmd)
}
