// Package cmd wires the loxi command-line front end: one cobra.Command per
// pipeline stage (tokenize, parse, evaluate, run), matching spec.md §6.
package cmd

import (
	"github.com/spf13/cobra"
)

var noColor bool

var rootCmd = &cobra.Command{
	Use:   "loxi",
	Short: "loxi is a tree-walking interpreter for the Lox language",
	Long: `loxi scans, parses, resolves, and evaluates Lox programs.

Each subcommand drives one prefix of the pipeline:

  tokenize <file>   print the token stream
  parse <file>      parse a single expression, print its AST
  evaluate <file>   parse and evaluate a single expression, print the result
  run <file>        parse, resolve, and execute a whole program`,
}

// Execute runs the root command; the returned error (if any) carries an
// exit code via *diag.ExitError, which main.go unwraps.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored diagnostic output")
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
}
