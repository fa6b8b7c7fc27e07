package interp

import (
	"strconv"

	"github.com/sdcook/loxi/internal/ast"
)

// Value is the runtime value sum type: Nil | Bool | Number | String |
// Native | *Function | *Class | *Instance. Function, Class, and Instance
// are represented as pointers so that aliasing (an instance passed around,
// a method's retained closure) is real Go reference sharing rather than a
// copy.
type Value interface {
	loxType() string
	String() string
}

// Nil is the singleton nil value.
type Nil struct{}

func (Nil) loxType() string { return "nil" }
func (Nil) String() string   { return "nil" }

// Bool wraps a boolean.
type Bool bool

func (Bool) loxType() string { return "bool" }
func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}

// Number wraps a 64-bit float, the language's only numeric type.
type Number float64

func (Number) loxType() string { return "number" }

// String renders the number the way `print` and `tokenize` both do: plain
// decimal notation, shortest form that round-trips, with no trailing ".0"
// on whole values (42.0 prints as "42").
func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

// String wraps a Lox string value (named LoxString to avoid colliding with
// the builtin string type).
type LoxString string

func (LoxString) loxType() string  { return "string" }
func (s LoxString) String() string { return string(s) }

// NativeFn is a Go-implemented callable exposed to Lox (currently just
// `clock`). It is checked for arity the same way user functions are.
type NativeFn struct {
	Name    string
	arity   int
	Fn      func(interp *Interpreter, args []Value) (Value, error)
}

func (*NativeFn) loxType() string  { return "native" }
func (n *NativeFn) String() string { return "<native fn " + n.Name + ">" }

// Function is a user-defined function or method value. Closure is never
// nil: it is the environment in effect when the `fun`/method declaration
// was evaluated. IsInitializer marks methods literally named `init`, which
// always return `this` regardless of how control leaves the body.
type Function struct {
	Decl          *ast.FunctionDecl
	Closure       *Environment
	IsInitializer bool
}

func (*Function) loxType() string  { return "function" }
func (f *Function) String() string { return "<fn " + f.Decl.Name.Lexeme + ">" }

// Bind returns a copy of f whose closure is extended with `this` bound to
// instance — this is how a method fetched off an instance becomes callable
// with the right receiver.
func (f *Function) Bind(instance *Instance) *Function {
	env := NewEnvironment(f.Closure)
	env.Define("this", instance)
	return &Function{Decl: f.Decl, Closure: env, IsInitializer: f.IsInitializer}
}

// Class is a user-defined class: a method table plus an optional single
// superclass.
type Class struct {
	Name       string
	Superclass *Class
	Methods    map[string]*Function
}

func (*Class) loxType() string  { return "class" }
func (c *Class) String() string { return c.Name }

// FindMethod looks up name in c's own method table, falling back through
// the superclass chain.
func (c *Class) FindMethod(name string) *Function {
	if m, ok := c.Methods[name]; ok {
		return m
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil
}

// Instance is a dynamically-fielded object of some Class.
type Instance struct {
	Class  *Class
	Fields map[string]Value
}

func NewInstance(class *Class) *Instance {
	return &Instance{Class: class, Fields: make(map[string]Value)}
}

func (*Instance) loxType() string  { return "instance" }
func (i *Instance) String() string { return i.Class.Name + " instance" }

// IsTruthy implements spec.md §4.4: only nil and false are falsy.
func IsTruthy(v Value) bool {
	switch val := v.(type) {
	case Nil:
		return false
	case Bool:
		return bool(val)
	default:
		return true
	}
}

// IsEqual implements structural equality: nil == nil only, booleans,
// numbers, and strings compare by value, everything else (Function, Class,
// Instance, NativeFn) compares by identity.
func IsEqual(a, b Value) bool {
	switch av := a.(type) {
	case Nil:
		_, ok := b.(Nil)
		return ok
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Number:
		bv, ok := b.(Number)
		return ok && av == bv
	case LoxString:
		bv, ok := b.(LoxString)
		return ok && av == bv
	default:
		return a == b
	}
}
