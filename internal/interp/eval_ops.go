package interp

import (
	"strconv"

	"github.com/sdcook/loxi/internal/ast"
	"github.com/sdcook/loxi/internal/diag"
	"github.com/sdcook/loxi/internal/token"
)

// literalValue converts a parsed LiteralExpr into its runtime Value.
func literalValue(e *ast.LiteralExpr) Value {
	switch e.Kind {
	case token.True:
		return Bool(true)
	case token.False:
		return Bool(false)
	case token.Nil:
		return Nil{}
	case token.String:
		return LoxString(e.Value)
	case token.Number:
		f, _ := strconv.ParseFloat(e.Value, 64)
		return Number(f)
	}
	panic("unreachable literal kind")
}

// evalBinary implements spec.md §4.4's arithmetic, comparison, and equality
// rules: `+` is overloaded between numbers and strings, `- * /` and the
// comparisons require two numbers, `==`/`!=` use structural IsEqual.
func evalBinary(op token.Token, left, right Value) (Value, error) {
	switch op.Kind {
	case token.Plus:
		if ls, ok := left.(LoxString); ok {
			if rs, ok := right.(LoxString); ok {
				return ls + rs, nil
			}
		}
		if ln, ok := left.(Number); ok {
			if rn, ok := right.(Number); ok {
				return ln + rn, nil
			}
		}
		return nil, diag.NewRuntimeErrorf(op.Line, "Operands must be two numbers or two strings.")
	case token.Minus:
		l, r, err := numberOperands(op, left, right)
		if err != nil {
			return nil, err
		}
		return l - r, nil
	case token.Star:
		l, r, err := numberOperands(op, left, right)
		if err != nil {
			return nil, err
		}
		return l * r, nil
	case token.Slash:
		l, r, err := numberOperands(op, left, right)
		if err != nil {
			return nil, err
		}
		return l / r, nil
	case token.Greater:
		l, r, err := numberOperands(op, left, right)
		if err != nil {
			return nil, err
		}
		return Bool(l > r), nil
	case token.GreaterEqual:
		l, r, err := numberOperands(op, left, right)
		if err != nil {
			return nil, err
		}
		return Bool(l >= r), nil
	case token.Less:
		l, r, err := numberOperands(op, left, right)
		if err != nil {
			return nil, err
		}
		return Bool(l < r), nil
	case token.LessEqual:
		l, r, err := numberOperands(op, left, right)
		if err != nil {
			return nil, err
		}
		return Bool(l <= r), nil
	case token.EqualEqual:
		return Bool(IsEqual(left, right)), nil
	case token.BangEqual:
		return Bool(!IsEqual(left, right)), nil
	}
	panic("unreachable binary operator")
}

func numberOperands(op token.Token, left, right Value) (Number, Number, error) {
	l, lok := left.(Number)
	r, rok := right.(Number)
	if !lok || !rok {
		return 0, 0, diag.NewRuntimeErrorf(op.Line, "Operands must be numbers.")
	}
	return l, r, nil
}
