package scanner_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdcook/loxi/internal/diag"
	"github.com/sdcook/loxi/internal/scanner"
	"github.com/sdcook/loxi/internal/token"
)

func scanAll(t *testing.T, src string) ([]token.Token, *diag.CollectingReporter) {
	t.Helper()
	var buf strings.Builder
	r := diag.NewCollectingReporter(&buf)
	r.NoColor = true
	toks := scanner.New([]byte(src), r).Scan()
	return toks, r
}

func TestScanPunctuationAndOperators(t *testing.T) {
	toks, r := scanAll(t, "(){},.-+;*!=<=>===")
	require.False(t, r.HadError())
	kinds := make([]token.Kind, 0, len(toks))
	for _, tk := range toks {
		kinds = append(kinds, tk.Kind)
	}
	assert.Equal(t, []token.Kind{
		token.LeftParen, token.RightParen, token.LeftBrace, token.RightBrace,
		token.Comma, token.Dot, token.Minus, token.Plus, token.Semicolon,
		token.Star, token.BangEqual, token.LessEqual, token.GreaterEqual,
		token.EqualEqual, token.EOF,
	}, kinds)
}

func TestScanStringLiteral(t *testing.T) {
	toks, r := scanAll(t, `"hello world"`)
	require.False(t, r.HadError())
	require.Len(t, toks, 2)
	assert.Equal(t, token.String, toks[0].Kind)
	assert.Equal(t, "hello world", toks[0].Literal)
	assert.Equal(t, `"hello world"`, toks[0].Lexeme)
}

func TestScanUnterminatedString(t *testing.T) {
	_, r := scanAll(t, `"oops`)
	assert.True(t, r.HadError())
}

func TestScanNumberLiteralFormatting(t *testing.T) {
	toks, r := scanAll(t, "42 42.0 42.5")
	require.False(t, r.HadError())
	require.Len(t, toks, 4)
	assert.Equal(t, "42", toks[0].Literal)
	assert.Equal(t, "42", toks[1].Literal)
	assert.Equal(t, "42.5", toks[2].Literal)
}

func TestScanIdentifiersAndKeywords(t *testing.T) {
	toks, r := scanAll(t, "orchid or class")
	require.False(t, r.HadError())
	require.Len(t, toks, 4)
	assert.Equal(t, token.Identifier, toks[0].Kind)
	assert.Equal(t, token.Or, toks[1].Kind)
	assert.Equal(t, token.Class, toks[2].Kind)
}

func TestScanLineCommentsAreDiscarded(t *testing.T) {
	toks, r := scanAll(t, "1 // a comment\n2")
	require.False(t, r.HadError())
	require.Len(t, toks, 3)
	assert.Equal(t, 1, toks[0].Line)
	assert.Equal(t, 2, toks[1].Line)
}

func TestScanUnexpectedCharacterReportsAndContinues(t *testing.T) {
	toks, r := scanAll(t, "1 @ 2")
	assert.True(t, r.HadError())
	// The scanner skips the bad byte and keeps producing tokens around it.
	require.Len(t, toks, 3)
	assert.Equal(t, token.Number, toks[0].Kind)
	assert.Equal(t, token.Number, toks[1].Kind)
}

func TestScanMultilineTracksLineNumbers(t *testing.T) {
	toks, r := scanAll(t, "var a = 1;\nvar b = 2;")
	require.False(t, r.HadError())
	var line2 int
	for _, tk := range toks {
		if tk.Kind == token.Identifier && tk.Lexeme == "b" {
			line2 = tk.Line
		}
	}
	assert.Equal(t, 2, line2)
}
