package runtime

import (
	"math"
	"strconv"
)

// Operator semantics. Every function is total over the value kinds: it
// either produces a Value or fails with a *Error carrying no position;
// the evaluator attaches the position of the operator.
//
// Booleans hold 0 or 1 and take part in +, - and * as that number.
// Strings only combine with +.

// numeric returns the arithmetic payload of a Number or Boolean.
func numeric(v Value) (float64, bool) {
	switch v := v.(type) {
	case NumberValue:
		return v.Val, true
	case BoolValue:
		return v.Val, true
	}
	return 0, false
}

func mismatch(op string, x, y Value) *Error {
	return Errorf(TypeMismatch, "cannot apply '%s' to %s and %s", op, x.Kind(), y.Kind())
}

// Add implements +. A string on either side turns the operation into
// concatenation, with the other side formatted as a number.
func Add(x, y Value) (Value, error) {
	if a, ok := numeric(x); ok {
		if b, ok := numeric(y); ok {
			return NumberValue{Val: a + b}, nil
		}
		if s, ok := y.(StringValue); ok {
			return StringValue{Val: FormatNumber(a) + s.Val}, nil
		}
		return nil, mismatch("+", x, y)
	}
	if s, ok := x.(StringValue); ok {
		switch y := y.(type) {
		case StringValue:
			return StringValue{Val: s.Val + y.Val}, nil
		case NumberValue, BoolValue:
			b, _ := numeric(y)
			return StringValue{Val: s.Val + FormatNumber(b)}, nil
		}
	}
	return nil, mismatch("+", x, y)
}

// Sub implements binary -.
func Sub(x, y Value) (Value, error) {
	a, ok1 := numeric(x)
	b, ok2 := numeric(y)
	if !ok1 || !ok2 {
		return nil, mismatch("-", x, y)
	}
	return NumberValue{Val: a - b}, nil
}

// Mul implements *.
func Mul(x, y Value) (Value, error) {
	a, ok1 := numeric(x)
	b, ok2 := numeric(y)
	if !ok1 || !ok2 {
		return nil, mismatch("*", x, y)
	}
	return NumberValue{Val: a * b}, nil
}

// Div implements /. Both operands must be numbers; booleans are rejected.
// A zero divisor is reported before the dividend is checked.
func Div(x, y Value) (Value, error) {
	b, ok := y.(NumberValue)
	if ok && b.Val == 0 {
		return nil, Errorf(DivisionByZero, "division by zero")
	}
	a, ok1 := x.(NumberValue)
	if !ok || !ok1 {
		return nil, mismatch("/", x, y)
	}
	return NumberValue{Val: a.Val / b.Val}, nil
}

// Equal implements ==. Values of different kinds are never equal, and
// functions are not equal to anything.
func Equal(x, y Value) Value {
	return Bool(equal(x, y))
}

// NotEqual implements !=.
func NotEqual(x, y Value) Value {
	return Bool(!equal(x, y))
}

func equal(x, y Value) bool {
	switch x := x.(type) {
	case NumberValue:
		y, ok := y.(NumberValue)
		return ok && x.Val == y.Val
	case BoolValue:
		y, ok := y.(BoolValue)
		return ok && x.Val == y.Val
	case StringValue:
		y, ok := y.(StringValue)
		return ok && x.Val == y.Val
	case NullValue:
		_, ok := y.(NullValue)
		return ok
	}
	return false
}

// compare orders two values of the same kind. Numbers and booleans compare
// numerically, strings lexicographically by bytes.
func compare(op string, x, y Value) (int, error) {
	switch x := x.(type) {
	case NumberValue:
		if y, ok := y.(NumberValue); ok {
			return cmpFloat(x.Val, y.Val), nil
		}
	case BoolValue:
		if y, ok := y.(BoolValue); ok {
			return cmpFloat(x.Val, y.Val), nil
		}
	case StringValue:
		if y, ok := y.(StringValue); ok {
			switch {
			case x.Val < y.Val:
				return -1, nil
			case x.Val > y.Val:
				return 1, nil
			}
			return 0, nil
		}
	}
	return 0, mismatch(op, x, y)
}

// unordered is returned by cmpFloat when either operand is NaN, so that
// every comparison involving NaN is false.
const unordered = 2

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	case a == b:
		return 0
	}
	return unordered
}

// Greater implements >.
func Greater(x, y Value) (Value, error) {
	c, err := compare(">", x, y)
	if err != nil {
		return nil, err
	}
	return Bool(c == 1), nil
}

// GreaterEqual implements >=.
func GreaterEqual(x, y Value) (Value, error) {
	c, err := compare(">=", x, y)
	if err != nil {
		return nil, err
	}
	return Bool(c == 1 || c == 0), nil
}

// Less implements <.
func Less(x, y Value) (Value, error) {
	c, err := compare("<", x, y)
	if err != nil {
		return nil, err
	}
	return Bool(c == -1), nil
}

// LessEqual implements <=.
func LessEqual(x, y Value) (Value, error) {
	c, err := compare("<=", x, y)
	if err != nil {
		return nil, err
	}
	return Bool(c == -1 || c == 0), nil
}

// Negate implements unary -. Only numbers can be negated.
func Negate(x Value) (Value, error) {
	if n, ok := x.(NumberValue); ok {
		return NumberValue{Val: -n.Val}, nil
	}
	return nil, Errorf(TypeMismatch, "cannot apply unary '-' to %s", x.Kind())
}

// Not implements !, which is only defined on booleans. The evaluator
// converts its operand with ToBool first.
func Not(x Value) (Value, error) {
	if b, ok := x.(BoolValue); ok {
		return Bool(!b.IsTrue()), nil
	}
	return nil, Errorf(TypeMismatch, "cannot apply '!' to %s", x.Kind())
}

// Truthy reports whether v counts as true in a condition. Numbers and
// booleans are truthy when nonzero, strings when non-empty, functions
// always, and nil never.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case NumberValue:
		return v.Val != 0
	case BoolValue:
		return v.Val != 0
	case StringValue:
		return v.Val != ""
	case *FunctionValue:
		return true
	}
	return false
}

// ToBool casts v to a boolean by truthiness. Booleans are returned as is.
func ToBool(v Value) Value {
	if b, ok := v.(BoolValue); ok {
		return b
	}
	return Bool(Truthy(v))
}

// FormatNumber renders f in its shortest decimal form without an exponent.
func FormatNumber(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "NaN"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Format renders v the way print writes it.
func Format(v Value) string {
	switch v := v.(type) {
	case StringValue:
		return v.Val
	case NumberValue:
		return FormatNumber(v.Val)
	case BoolValue:
		if v.IsTrue() {
			return "true"
		}
		return "false"
	case NullValue:
		return "nil"
	case *FunctionValue:
		if _, ok := v.Callable.(*Builtin); ok {
			return "<native fn " + v.Callable.Name() + ">"
		}
		return "<fn " + v.Callable.Name() + ">"
	case nil:
		return "nil"
	}
	return "<unknown>"
}
