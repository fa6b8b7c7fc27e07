package parser_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdcook/loxi/internal/ast"
	"github.com/sdcook/loxi/internal/diag"
	"github.com/sdcook/loxi/internal/parser"
	"github.com/sdcook/loxi/internal/scanner"
)

func newReporter() *diag.CollectingReporter {
	r := diag.NewCollectingReporter(&strings.Builder{})
	r.NoColor = true
	return r
}

func parseExpr(t *testing.T, src string) (ast.Expr, *diag.CollectingReporter) {
	t.Helper()
	r := newReporter()
	toks := scanner.New([]byte(src), r).Scan()
	require.False(t, r.HadError(), "scan failed for %q", src)
	p := parser.New(toks, r)
	return p.ParseExpression(), r
}

func parseProgram(t *testing.T, src string) ([]ast.Stmt, *diag.CollectingReporter) {
	t.Helper()
	r := newReporter()
	toks := scanner.New([]byte(src), r).Scan()
	require.False(t, r.HadError(), "scan failed for %q", src)
	p := parser.New(toks, r)
	return p.ParseProgram(), r
}

func TestParsePrefixPrinterForms(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1 + 2;", "(+ 1 2)"},
		{"(1 + 2) * 3;", "(* (group (+ 1 2)) 3)"},
		{"-1;", "(- 1)"},
		{"!true;", "(! true)"},
		{"1 == 2;", "(== 1 2)"},
	}
	for _, tc := range tests {
		expr, r := parseExpr(t, tc.src)
		require.False(t, r.HadError(), tc.src)
		assert.Equal(t, tc.want, expr.String(), tc.src)
	}
}

func TestParseCallAndGetExpr(t *testing.T) {
	expr, r := parseExpr(t, "foo(1, 2).bar;")
	require.False(t, r.HadError())
	assert.Equal(t, "(get (call foo 1 2) bar)", expr.String())
}

func TestParseAssignmentToVariable(t *testing.T) {
	expr, r := parseExpr(t, "a = 1;")
	require.False(t, r.HadError())
	_, ok := expr.(*ast.AssignExpr)
	assert.True(t, ok)
}

func TestParseInvalidAssignmentTargetReportsButKeepsExpr(t *testing.T) {
	expr, r := parseExpr(t, "1 = 2;")
	assert.True(t, r.HadError())
	assert.NotNil(t, expr)
}

func TestParseMissingSemicolonIsStaticError(t *testing.T) {
	_, r := parseProgram(t, "var a = 1")
	assert.True(t, r.HadError())
}

func TestParseForLoopDesugarsToWhile(t *testing.T) {
	stmts, r := parseProgram(t, "for (var i = 0; i < 3; i = i + 1) print i;")
	require.False(t, r.HadError())
	require.Len(t, stmts, 1)

	block, ok := stmts[0].(*ast.Block)
	require.True(t, ok, "expected desugared for-loop to be a Block")
	require.Len(t, block.Stmts, 2)

	_, ok = block.Stmts[0].(*ast.VarDecl)
	assert.True(t, ok, "first stmt should be the initializer")

	whileStmt, ok := block.Stmts[1].(*ast.WhileStmt)
	require.True(t, ok, "second stmt should be the desugared while loop")

	body, ok := whileStmt.Body.(*ast.Block)
	require.True(t, ok)
	require.Len(t, body.Stmts, 2)
}

func TestParseForLoopWithMissingClausesOmitsThem(t *testing.T) {
	stmts, r := parseProgram(t, "for (;;) print 1;")
	require.False(t, r.HadError())
	require.Len(t, stmts, 1)

	whileStmt, ok := stmts[0].(*ast.WhileStmt)
	require.True(t, ok, "no init/incr means no wrapping Block, just the While")
	lit, ok := whileStmt.Cond.(*ast.LiteralExpr)
	require.True(t, ok)
	assert.Equal(t, "true", lit.Value)
}

func TestParseClassWithSuperclassAndMethods(t *testing.T) {
	stmts, r := parseProgram(t, `
class Base {}
class Derived < Base {
  method() { return 1; }
}
`)
	require.False(t, r.HadError())
	require.Len(t, stmts, 2)

	derived, ok := stmts[1].(*ast.ClassDecl)
	require.True(t, ok)
	require.NotNil(t, derived.Superclass)
	assert.Equal(t, "Base", derived.Superclass.Name.Lexeme)
	require.Len(t, derived.Methods, 1)
	assert.Equal(t, "method", derived.Methods[0].Name.Lexeme)
}

func TestParseThisAndSuperExpressions(t *testing.T) {
	stmts, r := parseProgram(t, `
class Base { hello() { return 1; } }
class Derived < Base {
  hello() {
    super.hello();
    return this;
  }
}
`)
	require.False(t, r.HadError())
	derived := stmts[1].(*ast.ClassDecl)
	body := derived.Methods[0].Body
	require.Len(t, body, 2)
	exprStmt := body[0].(*ast.ExpressionStmt)
	call := exprStmt.Expr.(*ast.CallExpr)
	_, ok := call.Callee.(*ast.SuperExpr)
	assert.True(t, ok)
	ret := body[1].(*ast.ReturnStmt)
	_, ok = ret.Value.(*ast.ThisExpr)
	assert.True(t, ok)
}

func TestParseFunctionDeclaration(t *testing.T) {
	stmts, r := parseProgram(t, "fun add(a, b) { return a + b; }")
	require.False(t, r.HadError())
	require.Len(t, stmts, 1)
	fn, ok := stmts[0].(*ast.FunctionDecl)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name.Lexeme)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "a", fn.Params[0].Lexeme)
	assert.Equal(t, "b", fn.Params[1].Lexeme)
}

func TestParseSynchronizeRecoversAfterError(t *testing.T) {
	stmts, r := parseProgram(t, "var ;\nvar b = 2;")
	assert.True(t, r.HadError())
	// Synchronization should let the second, valid declaration still parse.
	found := false
	for _, s := range stmts {
		if vd, ok := s.(*ast.VarDecl); ok && vd.Name == "b" {
			found = true
		}
	}
	assert.True(t, found, "parser should recover and parse the second var decl")
}
