package interp

import (
	"errors"
	"fmt"

	"github.com/you-not-fish/lox/internal/runtime"
	"github.com/you-not-fish/lox/internal/syntax"
)

// eval computes the value of x in env.
func (i *Interpreter) eval(x syntax.Expr, env *runtime.Environment) (runtime.Value, error) {
	switch n := x.(type) {
	case *syntax.BasicLit:
		return literal(n), nil

	case *syntax.Name:
		if v, ok := env.Get(n.Value); ok {
			return v, nil
		}
		return nil, runtime.Errorf(runtime.UndefinedVariable, "undefined variable '%s'", n.Value).At(n.Pos())

	case *syntax.AssignExpr:
		v, err := i.eval(n.Value, env)
		if err != nil {
			return nil, err
		}
		if err := env.Assign(n.Name.Value, v); err != nil {
			return nil, at(err, n.Name.Pos())
		}
		return v, nil

	case *syntax.LogicalExpr:
		left, err := i.eval(n.X, env)
		if err != nil {
			return nil, err
		}
		// The deciding operand is the result, not a Boolean made from it.
		if n.Op == syntax.OrOp {
			if runtime.Truthy(left) {
				return left, nil
			}
		} else if !runtime.Truthy(left) {
			return left, nil
		}
		return i.eval(n.Y, env)

	case *syntax.BinaryExpr:
		left, err := i.eval(n.X, env)
		if err != nil {
			return nil, err
		}
		right, err := i.eval(n.Y, env)
		if err != nil {
			return nil, err
		}
		v, err := binary(n.Op, left, right)
		if err != nil {
			return nil, at(err, n.Pos())
		}
		return v, nil

	case *syntax.UnaryExpr:
		operand, err := i.eval(n.X, env)
		if err != nil {
			return nil, err
		}
		var v runtime.Value
		switch n.Op {
		case syntax.Sub:
			v, err = runtime.Negate(operand)
		case syntax.Not:
			v, err = runtime.Not(runtime.ToBool(operand))
		default:
			err = fmt.Errorf("unknown unary operator %s", n.Op)
		}
		if err != nil {
			return nil, at(err, n.Pos())
		}
		return v, nil

	case *syntax.ParenExpr:
		return i.eval(n.X, env)

	case *syntax.CallExpr:
		return i.call(n, env)

	case *syntax.BadExpr:
		return nil, fmt.Errorf("%s: cannot evaluate invalid expression", n.Pos())
	}
	return nil, fmt.Errorf("%s: cannot evaluate %T", x.Pos(), x)
}

func literal(lit *syntax.BasicLit) runtime.Value {
	switch lit.Kind {
	case syntax.NumberLit:
		return runtime.NumberValue{Val: lit.Num}
	case syntax.StringLit:
		return runtime.StringValue{Val: lit.Value}
	case syntax.TrueLit:
		return runtime.True
	case syntax.FalseLit:
		return runtime.False
	}
	return runtime.Null
}

func binary(op syntax.Token, x, y runtime.Value) (runtime.Value, error) {
	switch op {
	case syntax.Add:
		return runtime.Add(x, y)
	case syntax.Sub:
		return runtime.Sub(x, y)
	case syntax.Mul:
		return runtime.Mul(x, y)
	case syntax.Div:
		return runtime.Div(x, y)
	case syntax.Eql:
		return runtime.Equal(x, y), nil
	case syntax.Neq:
		return runtime.NotEqual(x, y), nil
	case syntax.Lss:
		return runtime.Less(x, y)
	case syntax.Leq:
		return runtime.LessEqual(x, y)
	case syntax.Gtr:
		return runtime.Greater(x, y)
	case syntax.Geq:
		return runtime.GreaterEqual(x, y)
	}
	return nil, fmt.Errorf("unknown binary operator %s", op)
}

// call evaluates the callee, then the arguments left to right, and
// invokes the result. Call errors are reported at the closing paren.
func (i *Interpreter) call(n *syntax.CallExpr, env *runtime.Environment) (runtime.Value, error) {
	callee, err := i.eval(n.Fun, env)
	if err != nil {
		return nil, err
	}
	args := make([]runtime.Value, 0, len(n.Args))
	for _, a := range n.Args {
		v, err := i.eval(a, env)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	fv, ok := callee.(*runtime.FunctionValue)
	if !ok {
		return nil, runtime.Errorf(runtime.NotCallable, "can only call functions, not %s", callee.Kind()).At(n.Rparen)
	}
	fn := fv.Callable
	if !fn.CheckArity(len(args)) {
		return nil, runtime.Errorf(runtime.ArityMismatch, "%s expects %s arguments but got %d",
			fn.Name(), runtime.ArityString(fn), len(args)).At(n.Rparen)
	}

	v, err := fn.Call(i, args)
	if err != nil {
		var rerr *runtime.Error
		if errors.As(err, &rerr) {
			return nil, rerr.At(n.Rparen)
		}
		return nil, fmt.Errorf("%s: %s: %w", n.Rparen, fn.Name(), err)
	}
	return v, nil
}

// at attaches pos to a runtime error that does not carry one yet.
func at(err error, pos syntax.Pos) error {
	var rerr *runtime.Error
	if errors.As(err, &rerr) {
		return rerr.At(pos)
	}
	return fmt.Errorf("%s: %w", pos, err)
}
