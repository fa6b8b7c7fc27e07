// Package ast defines the heterogeneous expression and statement nodes
// produced by the parser, consumed by the resolver and evaluator via the
// visitor interfaces declared here.
//
// Every expression node carries a unique, monotonically increasing id
// assigned at construction time (see nextID). The resolver's side-table is
// keyed by this id; it is the only glue between the resolver and the
// evaluator.
package ast

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/sdcook/loxi/internal/token"
)

var idCounter int64

func nextID() int64 {
	return atomic.AddInt64(&idCounter, 1)
}

// ResetIDs restarts identity assignment at zero. Intended for tests that
// want deterministic ids across independent parses; production runs never
// need it since ids only need to be unique within one program run.
func ResetIDs() {
	atomic.StoreInt64(&idCounter, 0)
}

// Expr is any expression node. Each carries a stable identity and can be
// visited by an ExprVisitor (used by both the resolver and the evaluator).
type Expr interface {
	ID() int64
	Accept(v ExprVisitor) (any, error)
	String() string
}

// ExprVisitor is implemented once by the resolver and once by the
// evaluator. Both walk the same Accept dispatch; the resolver ignores the
// `any` return and always yields nil.
type ExprVisitor interface {
	VisitLiteralExpr(*LiteralExpr) (any, error)
	VisitGroupingExpr(*GroupingExpr) (any, error)
	VisitUnaryExpr(*UnaryExpr) (any, error)
	VisitBinaryExpr(*BinaryExpr) (any, error)
	VisitLogicalExpr(*LogicalExpr) (any, error)
	VisitVariableExpr(*VariableExpr) (any, error)
	VisitAssignExpr(*AssignExpr) (any, error)
	VisitCallExpr(*CallExpr) (any, error)
	VisitGetExpr(*GetExpr) (any, error)
	VisitSetExpr(*SetExpr) (any, error)
	VisitThisExpr(*ThisExpr) (any, error)
	VisitSuperExpr(*SuperExpr) (any, error)
}

type exprBase struct{ id int64 }

func (e exprBase) ID() int64 { return e.id }

// LiteralExpr is an atomic constant: a number, string, bool, or nil.
type LiteralExpr struct {
	exprBase
	// Kind is the token kind the literal was scanned as (NUMBER, STRING,
	// TRUE, FALSE, or NIL); Value is the token's decoded literal for
	// NUMBER/STRING (formatted number, string without quotes) and the
	// keyword text for TRUE/FALSE/NIL.
	Kind  token.Kind
	Value string
}

func NewLiteralExpr(kind token.Kind, value string) *LiteralExpr {
	return &LiteralExpr{exprBase{nextID()}, kind, value}
}

func (e *LiteralExpr) Accept(v ExprVisitor) (any, error) { return v.VisitLiteralExpr(e) }
func (e *LiteralExpr) String() string {
	if e.Kind == token.String {
		return e.Value
	}
	if e.Value == "" {
		return "nil"
	}
	return e.Value
}

// GroupingExpr is a parenthesized subexpression.
type GroupingExpr struct {
	exprBase
	Inner Expr
}

func NewGroupingExpr(inner Expr) *GroupingExpr {
	return &GroupingExpr{exprBase{nextID()}, inner}
}

func (e *GroupingExpr) Accept(v ExprVisitor) (any, error) { return v.VisitGroupingExpr(e) }
func (e *GroupingExpr) String() string                    { return fmt.Sprintf("(group %s)", e.Inner) }

// UnaryExpr is `!` or unary `-`.
type UnaryExpr struct {
	exprBase
	Op      token.Token
	Operand Expr
}

func NewUnaryExpr(op token.Token, operand Expr) *UnaryExpr {
	return &UnaryExpr{exprBase{nextID()}, op, operand}
}

func (e *UnaryExpr) Accept(v ExprVisitor) (any, error) { return v.VisitUnaryExpr(e) }
func (e *UnaryExpr) String() string                     { return fmt.Sprintf("(%s %s)", e.Op.Lexeme, e.Operand) }

// BinaryExpr is arithmetic, comparison, or equality.
type BinaryExpr struct {
	exprBase
	Left  Expr
	Op    token.Token
	Right Expr
}

func NewBinaryExpr(left Expr, op token.Token, right Expr) *BinaryExpr {
	return &BinaryExpr{exprBase{nextID()}, left, op, right}
}

func (e *BinaryExpr) Accept(v ExprVisitor) (any, error) { return v.VisitBinaryExpr(e) }
func (e *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Op.Lexeme, e.Left, e.Right)
}

// LogicalExpr is short-circuiting `and`/`or`.
type LogicalExpr struct {
	exprBase
	Left  Expr
	Op    token.Token
	Right Expr
}

func NewLogicalExpr(left Expr, op token.Token, right Expr) *LogicalExpr {
	return &LogicalExpr{exprBase{nextID()}, left, op, right}
}

func (e *LogicalExpr) Accept(v ExprVisitor) (any, error) { return v.VisitLogicalExpr(e) }
func (e *LogicalExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Op.Lexeme, e.Left, e.Right)
}

// VariableExpr is a name read.
type VariableExpr struct {
	exprBase
	Name token.Token
}

func NewVariableExpr(name token.Token) *VariableExpr {
	return &VariableExpr{exprBase{nextID()}, name}
}

func (e *VariableExpr) Accept(v ExprVisitor) (any, error) { return v.VisitVariableExpr(e) }
func (e *VariableExpr) String() string                     { return e.Name.Lexeme }

// AssignExpr is a name write.
type AssignExpr struct {
	exprBase
	Name  token.Token
	Value Expr
}

func NewAssignExpr(name token.Token, value Expr) *AssignExpr {
	return &AssignExpr{exprBase{nextID()}, name, value}
}

func (e *AssignExpr) Accept(v ExprVisitor) (any, error) { return v.VisitAssignExpr(e) }
func (e *AssignExpr) String() string {
	return fmt.Sprintf("(= %s %s)", e.Name.Lexeme, e.Value)
}

// CallExpr is a function/class/method invocation.
type CallExpr struct {
	exprBase
	Callee Expr
	Paren  token.Token // closing ')', used for error line numbers
	Args   []Expr
}

func NewCallExpr(callee Expr, paren token.Token, args []Expr) *CallExpr {
	return &CallExpr{exprBase{nextID()}, callee, paren, args}
}

func (e *CallExpr) Accept(v ExprVisitor) (any, error) { return v.VisitCallExpr(e) }
func (e *CallExpr) String() string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("(call %s %s)", e.Callee, strings.Join(args, " "))
}

// GetExpr is a property read, `object.name`.
type GetExpr struct {
	exprBase
	Object Expr
	Name   token.Token
}

func NewGetExpr(object Expr, name token.Token) *GetExpr {
	return &GetExpr{exprBase{nextID()}, object, name}
}

func (e *GetExpr) Accept(v ExprVisitor) (any, error) { return v.VisitGetExpr(e) }
func (e *GetExpr) String() string                     { return fmt.Sprintf("(get %s %s)", e.Object, e.Name.Lexeme) }

// SetExpr is a property write, `object.name = value`.
type SetExpr struct {
	exprBase
	Object Expr
	Name   token.Token
	Value  Expr
}

func NewSetExpr(object Expr, name token.Token, value Expr) *SetExpr {
	return &SetExpr{exprBase{nextID()}, object, name, value}
}

func (e *SetExpr) Accept(v ExprVisitor) (any, error) { return v.VisitSetExpr(e) }
func (e *SetExpr) String() string {
	return fmt.Sprintf("(set %s %s %s)", e.Object, e.Name.Lexeme, e.Value)
}

// ThisExpr is a reference to the current instance inside a method.
type ThisExpr struct {
	exprBase
	Keyword token.Token
}

func NewThisExpr(keyword token.Token) *ThisExpr {
	return &ThisExpr{exprBase{nextID()}, keyword}
}

func (e *ThisExpr) Accept(v ExprVisitor) (any, error) { return v.VisitThisExpr(e) }
func (e *ThisExpr) String() string                     { return "this" }

// SuperExpr is an explicit superclass method reference, `super.method`.
type SuperExpr struct {
	exprBase
	Keyword token.Token
	Method  token.Token
}

func NewSuperExpr(keyword, method token.Token) *SuperExpr {
	return &SuperExpr{exprBase{nextID()}, keyword, method}
}

func (e *SuperExpr) Accept(v ExprVisitor) (any, error) { return v.VisitSuperExpr(e) }
func (e *SuperExpr) String() string {
	return fmt.Sprintf("(super %s)", e.Method.Lexeme)
}
