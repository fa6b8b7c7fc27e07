// Package diag formats and collects the diagnostics emitted by the scanner,
// parser, resolver, and evaluator, and carries the process exit code they
// imply back out to the command-line front end.
package diag

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Reporter receives diagnostics produced while scanning, parsing, resolving,
// or evaluating a program. Modeled on the Reporter/SimpleReporter split used
// by glox, so the three cores never write to stderr directly.
type Reporter interface {
	Report(err error)
	Reset()
	HadError() bool
	HadRuntimeError() bool
}

// StaticError is any scan, parse, or resolve failure; all map to exit 65.
type StaticError struct {
	Line    int
	Where   string // lexeme, "" for no location, or the "\x00end" sentinel (see NewStaticErrorAtEnd)
	Message string
}

func NewStaticErrorf(line int, where, format string, a ...any) *StaticError {
	return &StaticError{Line: line, Where: where, Message: fmt.Sprintf(format, a...)}
}

func (e *StaticError) Error() string {
	if e.errorAtEnd() {
		return fmt.Sprintf("[line %d] Error at end: %s", e.Line, e.Message)
	}
	if e.Where == "" {
		return fmt.Sprintf("[line %d] Error: %s", e.Line, e.Message)
	}
	return fmt.Sprintf("[line %d] Error at '%s': %s", e.Line, e.Where, e.Message)
}

// NewStaticErrorAtEnd builds the "Error at end" variant the parser uses when
// the offending token is EOF.
func NewStaticErrorAtEnd(line int, format string, a ...any) *StaticError {
	return &StaticError{Line: line, Where: "\x00end", Message: fmt.Sprintf(format, a...)}
}

func (e *StaticError) errorAtEnd() bool { return e.Where == "\x00end" }

// RuntimeError is any evaluator failure; maps to exit 70. It prints as the
// message on one line and "[line L]" on the next, per spec.
type RuntimeError struct {
	Line    int
	Message string
}

func NewRuntimeErrorf(line int, format string, a ...any) *RuntimeError {
	return &RuntimeError{Line: line, Message: fmt.Sprintf(format, a...)}
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s\n[line %d]", e.Message, e.Line)
}

// ExitError is the single error type that carries a process exit code out
// of the internal packages to cmd/loxi/main.go.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// CollectingReporter writes formatted diagnostics to an io.Writer (normally
// os.Stderr) and remembers whether a static or runtime error was seen.
type CollectingReporter struct {
	w             io.Writer
	hadErr        bool
	hadRuntimeErr bool
	NoColor       bool
}

func NewCollectingReporter(w io.Writer) *CollectingReporter {
	return &CollectingReporter{w: w}
}

func (r *CollectingReporter) Report(err error) {
	switch e := err.(type) {
	case *StaticError:
		r.hadErr = true
		r.print(color.New(color.FgRed), r.formatStatic(e))
	case *RuntimeError:
		r.hadRuntimeErr = true
		r.print(color.New(color.FgRed), e.Error())
	default:
		r.hadErr = true
		r.print(color.New(color.FgRed), err.Error())
	}
}

func (r *CollectingReporter) formatStatic(e *StaticError) string {
	if e.errorAtEnd() {
		return fmt.Sprintf("[line %d] Error at end: %s", e.Line, e.Message)
	}
	return e.Error()
}

func (r *CollectingReporter) print(c *color.Color, line string) {
	if r.NoColor {
		fmt.Fprintln(r.w, line)
		return
	}
	c.Fprintln(r.w, line)
}

func (r *CollectingReporter) Reset() {
	r.hadErr = false
	r.hadRuntimeErr = false
}

func (r *CollectingReporter) HadError() bool        { return r.hadErr }
func (r *CollectingReporter) HadRuntimeError() bool { return r.hadRuntimeErr }
