package interp

import (
	"github.com/dolthub/swiss"

	"github.com/sdcook/loxi/internal/diag"
)

// Environment is one frame of the lexical-scope chain: a name→value map
// with an optional parent. Environments are heap-allocated and shared —
// closures capture the *Environment pointer in effect when the function
// declaration was evaluated, so multiple Function values may share one
// parent environment.
type Environment struct {
	parent *Environment
	values *swiss.Map[string, Value]
}

// NewEnvironment creates a child of parent (nil for the global scope).
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{parent: parent, values: swiss.NewMap[string, Value](8)}
}

// Define inserts or overwrites name in this scope only; it never recurses
// to the parent. Redefinition is allowed here — the resolver is the one
// that rejects local redeclaration; the global scope permits it (handy for
// a REPL, harmless for scripts).
func (e *Environment) Define(name string, value Value) {
	e.values.Put(name, value)
}

// Get walks the parent chain from e outward, returning the first binding
// found for name.
func (e *Environment) Get(name string, line int) (Value, error) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.values.Get(name); ok {
			return v, nil
		}
	}
	return nil, diag.NewRuntimeErrorf(line, "Undefined variable '%s'.", name)
}

// Assign locates the nearest scope binding name and overwrites it there.
func (e *Environment) Assign(name string, value Value, line int) error {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.values.Get(name); ok {
			env.values.Put(name, value)
			return nil
		}
	}
	return diag.NewRuntimeErrorf(line, "Undefined variable '%s'.", name)
}

// ancestor skips exactly depth parent hops from e.
func (e *Environment) ancestor(depth int) *Environment {
	env := e
	for i := 0; i < depth; i++ {
		env = env.parent
	}
	return env
}

// GetAt reads directly from the scope depth hops out, bypassing the parent
// walk entirely. Used whenever the resolver recorded a depth for a
// reference.
func (e *Environment) GetAt(depth int, name string) Value {
	v, _ := e.ancestor(depth).values.Get(name)
	return v
}

// AssignAt writes directly into the scope depth hops out.
func (e *Environment) AssignAt(depth int, name string, value Value) {
	e.ancestor(depth).values.Put(name, value)
}
