// Package resolver performs the static pass between parsing and evaluation:
// for every variable, `this`, `super`, or assignment reference it computes
// the number of enclosing lexical scopes to skip at runtime, and it catches
// a handful of static errors that would otherwise surface as confusing
// runtime behavior.
package resolver

import (
	"github.com/dolthub/swiss"

	"github.com/sdcook/loxi/internal/ast"
	"github.com/sdcook/loxi/internal/diag"
)

type functionType int

const (
	functionNone functionType = iota
	functionFunction
	functionMethod
	functionInitializer
)

type classType int

const (
	classNone classType = iota
	classClass
	classSubclass
)

// scope maps a declared name to whether its initializer has finished
// running (spec.md §4.2's declare/define split).
type scope = swiss.Map[string, bool]

func newScope() *scope { return swiss.NewMap[string, bool](8) }

// Resolver walks an already-parsed program once. Locals is its sole output:
// the side-table the evaluator consults to resolve variable references.
type Resolver struct {
	reporter  diag.Reporter
	scopes    []*scope
	Locals    map[int64]int
	curFunc   functionType
	curClass  classType
}

func New(reporter diag.Reporter) *Resolver {
	return &Resolver{
		reporter: reporter,
		Locals:   make(map[int64]int),
	}
}

// Resolve walks every top-level statement. Errors are reported through the
// Resolver's reporter; callers should check reporter.HadError() afterward.
func (r *Resolver) Resolve(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(s ast.Stmt) {
	_, _, _ = s.Accept(r)
}

func (r *Resolver) resolveExpr(e ast.Expr) {
	_, _ = e.Accept(r)
}

func (r *Resolver) beginScope() { r.scopes = append(r.scopes, newScope()) }
func (r *Resolver) endScope()   { r.scopes = r.scopes[:len(r.scopes)-1] }

func (r *Resolver) declare(name string, line int) {
	if len(r.scopes) == 0 {
		return
	}
	sc := r.scopes[len(r.scopes)-1]
	if _, ok := sc.Get(name); ok {
		r.reporter.Report(diag.NewStaticErrorf(line, name, "Already a variable with this name in this scope."))
	}
	sc.Put(name, false)
}

func (r *Resolver) define(name string) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1].Put(name, true)
}

// resolveLocal records, for expr, how many scopes out from the innermost
// the binding for name lives. An unresolved name is left out of Locals
// entirely, meaning "look it up as a global at runtime".
func (r *Resolver) resolveLocal(id int64, name string) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i].Get(name); ok {
			r.Locals[id] = len(r.scopes) - 1 - i
			return
		}
	}
}

func (r *Resolver) resolveFunction(fd *ast.FunctionDecl, typ functionType) {
	enclosing := r.curFunc
	r.curFunc = typ
	defer func() { r.curFunc = enclosing }()

	r.beginScope()
	defer r.endScope()

	for _, p := range fd.Params {
		r.declare(p.Lexeme, p.Line)
		r.define(p.Lexeme)
	}
	for _, stmt := range fd.Body {
		r.resolveStmt(stmt)
	}
}

// --- StmtVisitor ---

func (r *Resolver) VisitExpressionStmt(s *ast.ExpressionStmt) (any, bool, error) {
	r.resolveExpr(s.Expr)
	return nil, false, nil
}

func (r *Resolver) VisitPrintStmt(s *ast.PrintStmt) (any, bool, error) {
	r.resolveExpr(s.Expr)
	return nil, false, nil
}

func (r *Resolver) VisitVarStmt(s *ast.VarDecl) (any, bool, error) {
	r.declare(s.Name, 0)
	if s.Init != nil {
		r.resolveExpr(s.Init)
	}
	r.define(s.Name)
	return nil, false, nil
}

func (r *Resolver) VisitBlockStmt(s *ast.Block) (any, bool, error) {
	r.beginScope()
	for _, d := range s.Stmts {
		r.resolveStmt(d)
	}
	r.endScope()
	return nil, false, nil
}

func (r *Resolver) VisitIfStmt(s *ast.IfStmt) (any, bool, error) {
	r.resolveExpr(s.Cond)
	r.resolveStmt(s.Then)
	if s.Else != nil {
		r.resolveStmt(s.Else)
	}
	return nil, false, nil
}

func (r *Resolver) VisitWhileStmt(s *ast.WhileStmt) (any, bool, error) {
	r.resolveExpr(s.Cond)
	r.resolveStmt(s.Body)
	return nil, false, nil
}

func (r *Resolver) VisitFunctionStmt(s *ast.FunctionDecl) (any, bool, error) {
	r.declare(s.Name.Lexeme, s.Name.Line)
	r.define(s.Name.Lexeme)
	r.resolveFunction(s, functionFunction)
	return nil, false, nil
}

func (r *Resolver) VisitReturnStmt(s *ast.ReturnStmt) (any, bool, error) {
	if r.curFunc == functionNone {
		r.reporter.Report(diag.NewStaticErrorf(s.Keyword.Line, "return", "Can't return from top-level code."))
	}
	if s.Value != nil {
		if r.curFunc == functionInitializer {
			r.reporter.Report(diag.NewStaticErrorf(s.Keyword.Line, "return", "Can't return a value from an initializer."))
		}
		r.resolveExpr(s.Value)
	}
	return nil, false, nil
}

func (r *Resolver) VisitClassStmt(s *ast.ClassDecl) (any, bool, error) {
	enclosingClass := r.curClass
	r.curClass = classClass

	r.declare(s.Name.Lexeme, s.Name.Line)
	r.define(s.Name.Lexeme)

	if s.Superclass != nil {
		if s.Superclass.Name.Lexeme == s.Name.Lexeme {
			r.reporter.Report(diag.NewStaticErrorf(s.Superclass.Name.Line, s.Superclass.Name.Lexeme, "A class can't inherit from itself."))
		}
		r.curClass = classSubclass
		r.resolveExpr(s.Superclass)

		r.beginScope()
		r.scopes[len(r.scopes)-1].Put("super", true)
	}

	r.beginScope()
	r.scopes[len(r.scopes)-1].Put("this", true)

	for _, m := range s.Methods {
		typ := functionMethod
		if m.Name.Lexeme == "init" {
			typ = functionInitializer
		}
		r.resolveFunction(m, typ)
	}

	r.endScope()

	if s.Superclass != nil {
		r.endScope()
	}

	r.curClass = enclosingClass
	return nil, false, nil
}

// --- ExprVisitor ---

func (r *Resolver) VisitLiteralExpr(*ast.LiteralExpr) (any, error) { return nil, nil }

func (r *Resolver) VisitGroupingExpr(e *ast.GroupingExpr) (any, error) {
	r.resolveExpr(e.Inner)
	return nil, nil
}

func (r *Resolver) VisitUnaryExpr(e *ast.UnaryExpr) (any, error) {
	r.resolveExpr(e.Operand)
	return nil, nil
}

func (r *Resolver) VisitBinaryExpr(e *ast.BinaryExpr) (any, error) {
	r.resolveExpr(e.Left)
	r.resolveExpr(e.Right)
	return nil, nil
}

func (r *Resolver) VisitLogicalExpr(e *ast.LogicalExpr) (any, error) {
	r.resolveExpr(e.Left)
	r.resolveExpr(e.Right)
	return nil, nil
}

func (r *Resolver) VisitVariableExpr(e *ast.VariableExpr) (any, error) {
	if len(r.scopes) > 0 {
		if defined, declared := r.scopes[len(r.scopes)-1].Get(e.Name.Lexeme); declared && !defined {
			r.reporter.Report(diag.NewStaticErrorf(e.Name.Line, e.Name.Lexeme, "Can't read local variable in its own initializer."))
		}
	}
	r.resolveLocal(e.ID(), e.Name.Lexeme)
	return nil, nil
}

func (r *Resolver) VisitAssignExpr(e *ast.AssignExpr) (any, error) {
	r.resolveExpr(e.Value)
	r.resolveLocal(e.ID(), e.Name.Lexeme)
	return nil, nil
}

func (r *Resolver) VisitCallExpr(e *ast.CallExpr) (any, error) {
	r.resolveExpr(e.Callee)
	for _, a := range e.Args {
		r.resolveExpr(a)
	}
	return nil, nil
}

func (r *Resolver) VisitGetExpr(e *ast.GetExpr) (any, error) {
	r.resolveExpr(e.Object)
	return nil, nil
}

func (r *Resolver) VisitSetExpr(e *ast.SetExpr) (any, error) {
	r.resolveExpr(e.Value)
	r.resolveExpr(e.Object)
	return nil, nil
}

func (r *Resolver) VisitThisExpr(e *ast.ThisExpr) (any, error) {
	if r.curClass == classNone {
		r.reporter.Report(diag.NewStaticErrorf(e.Keyword.Line, "this", "Can't use 'this' outside of a class."))
		return nil, nil
	}
	r.resolveLocal(e.ID(), "this")
	return nil, nil
}

func (r *Resolver) VisitSuperExpr(e *ast.SuperExpr) (any, error) {
	switch r.curClass {
	case classNone:
		r.reporter.Report(diag.NewStaticErrorf(e.Keyword.Line, "super", "Can't use 'super' outside of a class."))
	case classClass:
		r.reporter.Report(diag.NewStaticErrorf(e.Keyword.Line, "super", "Can't use 'super' in a class with no superclass."))
	}
	r.resolveLocal(e.ID(), "super")
	return nil, nil
}
