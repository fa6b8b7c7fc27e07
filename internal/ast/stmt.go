package ast

import (
	"fmt"
	"strings"

	"github.com/sdcook/loxi/internal/token"
)

// Stmt is any statement node. Accept returns the carried value used to
// implement `return` without exceptions (spec.md §9, "Return as control
// flow"): the second return is true iff the statement itself (or one nested
// inside it) executed a return.
type Stmt interface {
	Accept(v StmtVisitor) (carried any, returning bool, err error)
	String() string
}

type StmtVisitor interface {
	VisitExpressionStmt(*ExpressionStmt) (any, bool, error)
	VisitPrintStmt(*PrintStmt) (any, bool, error)
	VisitVarStmt(*VarDecl) (any, bool, error)
	VisitBlockStmt(*Block) (any, bool, error)
	VisitIfStmt(*IfStmt) (any, bool, error)
	VisitWhileStmt(*WhileStmt) (any, bool, error)
	VisitFunctionStmt(*FunctionDecl) (any, bool, error)
	VisitReturnStmt(*ReturnStmt) (any, bool, error)
	VisitClassStmt(*ClassDecl) (any, bool, error)
}

// ExpressionStmt evaluates an expression for its side effect and discards
// the result.
type ExpressionStmt struct{ Expr Expr }

func (s *ExpressionStmt) Accept(v StmtVisitor) (any, bool, error) { return v.VisitExpressionStmt(s) }
func (s *ExpressionStmt) String() string                           { return s.Expr.String() + ";" }

// PrintStmt evaluates an expression and writes its display form to stdout.
type PrintStmt struct{ Expr Expr }

func (s *PrintStmt) Accept(v StmtVisitor) (any, bool, error) { return v.VisitPrintStmt(s) }
func (s *PrintStmt) String() string                           { return "print " + s.Expr.String() + ";" }

// VarDecl declares a name, optionally initialized.
type VarDecl struct {
	Name string
	Init Expr // nil when the declaration has no initializer
}

func (s *VarDecl) Accept(v StmtVisitor) (any, bool, error) { return v.VisitVarStmt(s) }
func (s *VarDecl) String() string {
	if s.Init == nil {
		return "var " + s.Name + ";"
	}
	return fmt.Sprintf("var %s = %s;", s.Name, s.Init)
}

// Block is a brace-delimited sequence of declarations, run together in one
// fresh child environment.
type Block struct{ Stmts []Stmt }

func (s *Block) Accept(v StmtVisitor) (any, bool, error) { return v.VisitBlockStmt(s) }
func (s *Block) String() string {
	sb := strings.Builder{}
	sb.WriteString("{\n")
	for _, d := range s.Stmts {
		sb.WriteString("    " + d.String() + "\n")
	}
	sb.WriteByte('}')
	return sb.String()
}

// IfStmt is a conditional with an optional else branch.
type IfStmt struct {
	Cond Expr
	Then Stmt
	Else Stmt // nil when there is no else branch
}

func (s *IfStmt) Accept(v StmtVisitor) (any, bool, error) { return v.VisitIfStmt(s) }
func (s *IfStmt) String() string {
	str := fmt.Sprintf("if (%s) %s", s.Cond, s.Then)
	if s.Else != nil {
		str += " else " + s.Else.String()
	}
	return str
}

// WhileStmt re-evaluates Cond before every iteration of Body. `for` loops
// desugar into this during parsing.
type WhileStmt struct {
	Cond Expr
	Body Stmt
}

func (s *WhileStmt) Accept(v StmtVisitor) (any, bool, error) { return v.VisitWhileStmt(s) }
func (s *WhileStmt) String() string                           { return fmt.Sprintf("while (%s) %s", s.Cond, s.Body) }

// FunctionDecl declares a named function (or a class method, which reuses
// this node but is never looked up in an environment directly).
type FunctionDecl struct {
	Name   token.Token
	Params []token.Token
	Body   []Stmt
}

func (s *FunctionDecl) Accept(v StmtVisitor) (any, bool, error) { return v.VisitFunctionStmt(s) }
func (s *FunctionDecl) String() string {
	params := make([]string, len(s.Params))
	for i, p := range s.Params {
		params[i] = p.Lexeme
	}
	return fmt.Sprintf("fun %s(%s) { ... }", s.Name.Lexeme, strings.Join(params, ", "))
}

// ReturnStmt unwinds to the nearest function boundary carrying Value (or
// nil if Value is nil, meaning a bare `return;`).
type ReturnStmt struct {
	Keyword token.Token
	Value   Expr // nil for a bare `return;`
}

func (s *ReturnStmt) Accept(v StmtVisitor) (any, bool, error) { return v.VisitReturnStmt(s) }
func (s *ReturnStmt) String() string {
	if s.Value == nil {
		return "return;"
	}
	return fmt.Sprintf("return %s;", s.Value)
}

// ClassDecl declares a class with an optional single superclass and a set
// of methods (each a FunctionDecl).
type ClassDecl struct {
	Name       token.Token
	Superclass *VariableExpr // nil when there is no "< Base" clause
	Methods    []*FunctionDecl
}

func (s *ClassDecl) Accept(v StmtVisitor) (any, bool, error) { return v.VisitClassStmt(s) }
func (s *ClassDecl) String() string {
	sb := strings.Builder{}
	sb.WriteString("class " + s.Name.Lexeme)
	if s.Superclass != nil {
		sb.WriteString(" < " + s.Superclass.Name.Lexeme)
	}
	sb.WriteString(" {\n")
	for _, m := range s.Methods {
		sb.WriteString("    " + m.String() + "\n")
	}
	sb.WriteByte('}')
	return sb.String()
}
