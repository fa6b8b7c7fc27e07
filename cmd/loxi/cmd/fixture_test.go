package cmd

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/require"

	"github.com/sdcook/loxi/internal/diag"
)

// runCapturingOutput runs the `run` subcommand against path, capturing
// everything the program prints to stdout (os.Stdout is what
// interp.Interpreter writes to, so it must be swapped at the os.File
// level, not just through an io.Writer field) and returning the exit code
// main.go would have produced for the returned error.
func runCapturingOutput(t *testing.T, path string) (stdout string, exitCode int) {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = origStdout }()

	noColor = true
	runErr := runScript(nil, []string{path})

	w.Close()
	os.Stdout = origStdout
	out, err := io.ReadAll(r)
	require.NoError(t, err)

	if runErr == nil {
		return string(out), 0
	}
	var exitErr *diag.ExitError
	if errors.As(runErr, &exitErr) {
		return string(out), exitErr.Code
	}
	return string(out), 1
}

func TestRunFixtures(t *testing.T) {
	scripts, err := filepath.Glob("testdata/scripts/*.lox")
	require.NoError(t, err)
	require.NotEmpty(t, scripts)

	for _, script := range scripts {
		script := script
		name := filepath.Base(script)
		t.Run(name, func(t *testing.T) {
			out, code := runCapturingOutput(t, script)
			snaps.MatchSnapshot(t, "exit_code", code)
			snaps.MatchSnapshot(t, "stdout", out)
		})
	}
}
