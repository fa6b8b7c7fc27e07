// Package interp walks a resolved AST and produces the program's runtime
// effects. It owns the current environment pointer and the resolver's
// side-table (Locals), and implements ast.ExprVisitor/ast.StmtVisitor so
// the same Accept dispatch the resolver uses drives evaluation too.
package interp

import (
	"fmt"
	"io"
	"time"

	"github.com/sdcook/loxi/internal/ast"
	"github.com/sdcook/loxi/internal/diag"
	"github.com/sdcook/loxi/internal/token"
)

// Callable is any Value that can appear as the callee of a CallExpr:
// user functions, native functions, and classes (calling a class
// constructs an instance).
type Callable interface {
	Value
	Call(interp *Interpreter, args []Value) (Value, error)
	Arity() int
}

// Interpreter executes a resolved program. Locals is populated by the
// resolver before Interpret is called; a reference with no entry in Locals
// is resolved as a global by name.
type Interpreter struct {
	Globals *Environment
	env     *Environment
	Locals  map[int64]int
	Stdout  io.Writer
}

// New creates an Interpreter whose global scope has `clock` pre-defined.
func New(stdout io.Writer, locals map[int64]int) *Interpreter {
	globals := NewEnvironment(nil)
	it := &Interpreter{Globals: globals, env: globals, Locals: locals, Stdout: stdout}
	globals.Define("clock", &NativeFn{
		Name:  "clock",
		arity: 0,
		Fn: func(*Interpreter, []Value) (Value, error) {
			return Number(float64(time.Now().UnixNano()) / 1e9), nil
		},
	})
	return it
}

// Interpret runs a whole program's statements in order, stopping at the
// first runtime error.
func (it *Interpreter) Interpret(stmts []ast.Stmt) error {
	for _, s := range stmts {
		if _, _, err := it.execute(s); err != nil {
			return err
		}
	}
	return nil
}

func (it *Interpreter) execute(s ast.Stmt) (Value, bool, error) {
	carried, returning, err := s.Accept(it)
	if err != nil {
		return nil, false, err
	}
	if carried == nil {
		return nil, returning, nil
	}
	return carried.(Value), returning, nil
}

// EvalStandalone evaluates a single expression outside of any resolved
// program — used by the `evaluate` subcommand, which only ever parses one
// expression and never runs the resolver. Every variable reference is
// therefore looked up as a global by name.
func (it *Interpreter) EvalStandalone(e ast.Expr) (Value, error) {
	return it.eval(e)
}

func (it *Interpreter) eval(e ast.Expr) (Value, error) {
	v, err := e.Accept(it)
	if err != nil {
		return nil, err
	}
	return v.(Value), nil
}

// lookUpVariable resolves name using the depth the resolver recorded for
// id, falling back to a global lookup by name when no depth was recorded.
func (it *Interpreter) lookUpVariable(id int64, name string, line int) (Value, error) {
	if depth, ok := it.Locals[id]; ok {
		return it.env.GetAt(depth, name), nil
	}
	return it.Globals.Get(name, line)
}

// --- StmtVisitor ---

func (it *Interpreter) VisitExpressionStmt(s *ast.ExpressionStmt) (any, bool, error) {
	if _, err := it.eval(s.Expr); err != nil {
		return nil, false, err
	}
	return nil, false, nil
}

func (it *Interpreter) VisitPrintStmt(s *ast.PrintStmt) (any, bool, error) {
	v, err := it.eval(s.Expr)
	if err != nil {
		return nil, false, err
	}
	fmt.Fprintln(it.Stdout, v.String())
	return nil, false, nil
}

func (it *Interpreter) VisitVarStmt(s *ast.VarDecl) (any, bool, error) {
	var value Value = Nil{}
	if s.Init != nil {
		v, err := it.eval(s.Init)
		if err != nil {
			return nil, false, err
		}
		value = v
	}
	it.env.Define(s.Name, value)
	return nil, false, nil
}

func (it *Interpreter) VisitBlockStmt(s *ast.Block) (any, bool, error) {
	return it.executeBlock(s.Stmts, NewEnvironment(it.env))
}

// executeBlock runs stmts in env, restoring the interpreter's previous
// environment on every exit path — including an error or a carried return
// value partway through the block.
func (it *Interpreter) executeBlock(stmts []ast.Stmt, env *Environment) (any, bool, error) {
	previous := it.env
	it.env = env
	defer func() { it.env = previous }()

	for _, stmt := range stmts {
		carried, returning, err := it.execute(stmt)
		if err != nil {
			return nil, false, err
		}
		if returning {
			return carried, true, nil
		}
	}
	return nil, false, nil
}

func (it *Interpreter) VisitIfStmt(s *ast.IfStmt) (any, bool, error) {
	cond, err := it.eval(s.Cond)
	if err != nil {
		return nil, false, err
	}
	if IsTruthy(cond) {
		return s.Then.Accept(it)
	}
	if s.Else != nil {
		return s.Else.Accept(it)
	}
	return nil, false, nil
}

func (it *Interpreter) VisitWhileStmt(s *ast.WhileStmt) (any, bool, error) {
	for {
		cond, err := it.eval(s.Cond)
		if err != nil {
			return nil, false, err
		}
		if !IsTruthy(cond) {
			return nil, false, nil
		}
		carried, returning, err := s.Body.Accept(it)
		if err != nil {
			return nil, false, err
		}
		if returning {
			return carried, true, nil
		}
	}
}

func (it *Interpreter) VisitFunctionStmt(s *ast.FunctionDecl) (any, bool, error) {
	fn := &Function{Decl: s, Closure: it.env}
	it.env.Define(s.Name.Lexeme, fn)
	return nil, false, nil
}

func (it *Interpreter) VisitReturnStmt(s *ast.ReturnStmt) (any, bool, error) {
	var value Value = Nil{}
	if s.Value != nil {
		v, err := it.eval(s.Value)
		if err != nil {
			return nil, false, err
		}
		value = v
	}
	return value, true, nil
}

func (it *Interpreter) VisitClassStmt(s *ast.ClassDecl) (any, bool, error) {
	var superclass *Class
	if s.Superclass != nil {
		v, err := it.eval(s.Superclass)
		if err != nil {
			return nil, false, err
		}
		sc, ok := v.(*Class)
		if !ok {
			return nil, false, diag.NewRuntimeErrorf(s.Superclass.Name.Line, "Superclass must be a class.")
		}
		superclass = sc
	}

	it.env.Define(s.Name.Lexeme, Nil{})

	env := it.env
	if s.Superclass != nil {
		env = NewEnvironment(it.env)
		env.Define("super", superclass)
	}

	methods := make(map[string]*Function, len(s.Methods))
	for _, m := range s.Methods {
		methods[m.Name.Lexeme] = &Function{
			Decl:          m,
			Closure:       env,
			IsInitializer: m.Name.Lexeme == "init",
		}
	}

	class := &Class{Name: s.Name.Lexeme, Superclass: superclass, Methods: methods}
	it.env.Assign(s.Name.Lexeme, class, s.Name.Line)
	return nil, false, nil
}

// --- ExprVisitor ---

func (it *Interpreter) VisitLiteralExpr(e *ast.LiteralExpr) (any, error) {
	return literalValue(e), nil
}

func (it *Interpreter) VisitGroupingExpr(e *ast.GroupingExpr) (any, error) {
	return it.eval(e.Inner)
}

func (it *Interpreter) VisitUnaryExpr(e *ast.UnaryExpr) (any, error) {
	right, err := it.eval(e.Operand)
	if err != nil {
		return nil, err
	}
	switch e.Op.Kind {
	case token.Bang:
		return Bool(!IsTruthy(right)), nil
	case token.Minus:
		n, ok := right.(Number)
		if !ok {
			return nil, diag.NewRuntimeErrorf(e.Op.Line, "Operand must be a number.")
		}
		return -n, nil
	}
	panic("unreachable unary operator")
}

func (it *Interpreter) VisitBinaryExpr(e *ast.BinaryExpr) (any, error) {
	left, err := it.eval(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := it.eval(e.Right)
	if err != nil {
		return nil, err
	}
	return evalBinary(e.Op, left, right)
}

func (it *Interpreter) VisitLogicalExpr(e *ast.LogicalExpr) (any, error) {
	left, err := it.eval(e.Left)
	if err != nil {
		return nil, err
	}
	isOr := e.Op.Lexeme == "or"
	if isOr == IsTruthy(left) {
		return left, nil
	}
	return it.eval(e.Right)
}

func (it *Interpreter) VisitVariableExpr(e *ast.VariableExpr) (any, error) {
	return it.lookUpVariable(e.ID(), e.Name.Lexeme, e.Name.Line)
}

func (it *Interpreter) VisitAssignExpr(e *ast.AssignExpr) (any, error) {
	value, err := it.eval(e.Value)
	if err != nil {
		return nil, err
	}
	if depth, ok := it.Locals[e.ID()]; ok {
		it.env.AssignAt(depth, e.Name.Lexeme, value)
	} else if err := it.Globals.Assign(e.Name.Lexeme, value, e.Name.Line); err != nil {
		return nil, err
	}
	return value, nil
}

func (it *Interpreter) VisitCallExpr(e *ast.CallExpr) (any, error) {
	callee, err := it.eval(e.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]Value, len(e.Args))
	for i, a := range e.Args {
		v, err := it.eval(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	fn, ok := callee.(Callable)
	if !ok {
		return nil, diag.NewRuntimeErrorf(e.Paren.Line, "Can only call functions and classes.")
	}
	if len(args) != fn.Arity() {
		return nil, diag.NewRuntimeErrorf(e.Paren.Line, "Expected %d arguments but got %d.", fn.Arity(), len(args))
	}
	return fn.Call(it, args)
}

func (it *Interpreter) VisitGetExpr(e *ast.GetExpr) (any, error) {
	object, err := it.eval(e.Object)
	if err != nil {
		return nil, err
	}
	instance, ok := object.(*Instance)
	if !ok {
		return nil, diag.NewRuntimeErrorf(e.Name.Line, "Only instances have properties.")
	}
	if v, ok := instance.Fields[e.Name.Lexeme]; ok {
		return v, nil
	}
	method := instance.Class.FindMethod(e.Name.Lexeme)
	if method == nil {
		return nil, diag.NewRuntimeErrorf(e.Name.Line, "Undefined property '%s'.", e.Name.Lexeme)
	}
	return method.Bind(instance), nil
}

func (it *Interpreter) VisitSetExpr(e *ast.SetExpr) (any, error) {
	object, err := it.eval(e.Object)
	if err != nil {
		return nil, err
	}
	instance, ok := object.(*Instance)
	if !ok {
		return nil, diag.NewRuntimeErrorf(e.Name.Line, "Only instances have fields.")
	}
	value, err := it.eval(e.Value)
	if err != nil {
		return nil, err
	}
	instance.Fields[e.Name.Lexeme] = value
	return value, nil
}

func (it *Interpreter) VisitThisExpr(e *ast.ThisExpr) (any, error) {
	return it.lookUpVariable(e.ID(), "this", e.Keyword.Line)
}

func (it *Interpreter) VisitSuperExpr(e *ast.SuperExpr) (any, error) {
	depth := it.Locals[e.ID()]
	superVal, err := it.lookUpVariable(e.ID(), "super", e.Keyword.Line)
	if err != nil {
		return nil, err
	}
	superclass := superVal.(*Class)

	instance := it.env.GetAt(depth-1, "this").(*Instance)

	method := superclass.FindMethod(e.Method.Lexeme)
	if method == nil {
		return nil, diag.NewRuntimeErrorf(e.Method.Line, "Undefined property '%s'.", e.Method.Lexeme)
	}
	return method.Bind(instance), nil
}
