package interp

// Call implements spec.md §4.4's five-step function-call procedure: arity
// was already checked by the caller (VisitCallExpr), so this builds the
// fresh activation environment, binds parameters, executes the body as a
// block, and resolves the carried return value (defaulting to nil, or to
// `this` for an initializer).
func (f *Function) Call(interp *Interpreter, args []Value) (Value, error) {
	env := NewEnvironment(f.Closure)
	for i, p := range f.Decl.Params {
		env.Define(p.Lexeme, args[i])
	}

	carried, returning, err := interp.executeBlock(f.Decl.Body, env)
	if err != nil {
		return nil, err
	}

	if f.IsInitializer {
		return f.Closure.GetAt(0, "this"), nil
	}
	if returning {
		return carried.(Value), nil
	}
	return Nil{}, nil
}

func (f *Function) Arity() int { return len(f.Decl.Params) }

// Call implements spec.md §4.4's class-construction rule: calling a class
// builds a new Instance, binds and invokes `init` when the class defines
// one, and always returns the instance (not init's return value).
func (c *Class) Call(interp *Interpreter, args []Value) (Value, error) {
	instance := NewInstance(c)
	if initializer := c.FindMethod("init"); initializer != nil {
		if _, err := initializer.Bind(instance).Call(interp, args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

// Arity is the arity of `init` if the class defines one, else 0 (a
// no-argument constructor).
func (c *Class) Arity() int {
	if initializer := c.FindMethod("init"); initializer != nil {
		return initializer.Arity()
	}
	return 0
}

// Call invokes the wrapped Go closure.
func (n *NativeFn) Call(interp *Interpreter, args []Value) (Value, error) {
	return n.Fn(interp, args)
}

func (n *NativeFn) Arity() int { return n.arity }
