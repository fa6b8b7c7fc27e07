package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sdcook/loxi/internal/interp"
	"github.com/sdcook/loxi/internal/parser"
	"github.com/sdcook/loxi/internal/resolver"
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Parse, resolve, and execute a whole Lox program",
	Args:  cobra.ExactArgs(1),
	RunE:  runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runScript(_ *cobra.Command, args []string) error {
	toks, reporter, err := scanFile(args[0])
	if err != nil {
		return exit(1, err)
	}

	p := parser.New(toks, reporter)
	stmts := p.ParseProgram()
	if reporter.HadError() {
		return exit(65, nil)
	}

	res := resolver.New(reporter)
	res.Resolve(stmts)
	if reporter.HadError() {
		return exit(65, nil)
	}

	it := interp.New(os.Stdout, res.Locals)
	if runErr := it.Interpret(stmts); runErr != nil {
		reporter.Report(runErr)
		return exit(70, runErr)
	}
	return nil
}
