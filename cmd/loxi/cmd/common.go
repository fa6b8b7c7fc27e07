package cmd

import (
	"fmt"
	"os"

	"github.com/sdcook/loxi/internal/diag"
	"github.com/sdcook/loxi/internal/scanner"
	"github.com/sdcook/loxi/internal/token"
)

func readSource(path string) ([]byte, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return src, nil
}

func newReporter() *diag.CollectingReporter {
	r := diag.NewCollectingReporter(os.Stderr)
	r.NoColor = noColor
	return r
}

func scanFile(path string) ([]token.Token, *diag.CollectingReporter, error) {
	src, err := readSource(path)
	if err != nil {
		return nil, nil, err
	}
	reporter := newReporter()
	toks := scanner.New(src, reporter).Scan()
	return toks, reporter, nil
}

// exit returns nil for code 0 and otherwise a *diag.ExitError carrying code
// and err (which may be nil), the shape main.go expects from every RunE.
func exit(code int, err error) error {
	if code == 0 {
		return nil
	}
	return &diag.ExitError{Code: code, Err: err}
}
