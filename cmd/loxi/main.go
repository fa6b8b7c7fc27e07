// Command loxi is the command-line front end for the loxi Lox interpreter.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/sdcook/loxi/internal/diag"

	"github.com/sdcook/loxi/cmd/loxi/cmd"
)

func main() {
	os.Exit(run())
}

func run() int {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "internal error: %v\n", r)
			os.Exit(70)
		}
	}()

	err := cmd.Execute()
	if err == nil {
		return 0
	}

	var exitErr *diag.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	fmt.Fprintln(os.Stderr, err)
	return 1
}
