// Package runtime defines the dynamic values, scopes and runtime errors
// shared by the Lox evaluator and its built-in functions.
package runtime

import "fmt"

// Kind identifies the runtime value category.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBool
	KindFunction
	KindNull
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindFunction:
		return "function"
	case KindNull:
		return "nil"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

type NumberValue struct {
	Val float64
}

func (v NumberValue) Kind() Kind { return KindNumber }

// BoolValue is a boolean stored as the number 0 or 1. Arithmetic treats
// it as that number; only its formatting and the ! operator differ.
type BoolValue struct {
	Val float64
}

func (v BoolValue) Kind() Kind { return KindBool }

// IsTrue reports whether v holds a nonzero payload.
func (v BoolValue) IsTrue() bool { return v.Val != 0 }

type NullValue struct{}

func (NullValue) Kind() Kind { return KindNull }

var (
	Null  Value = NullValue{}
	True  Value = BoolValue{Val: 1}
	False Value = BoolValue{Val: 0}
)

// Bool converts a Go bool to a BoolValue.
func Bool(b bool) Value {
	if b {
		return True
	}
	return False
}

//-----------------------------------------------------------------------------
// Functions
//-----------------------------------------------------------------------------

// FunctionValue is a shared handle to a callable, either a built-in or a
// user-defined closure. Copies of the handle refer to the same function.
type FunctionValue struct {
	Callable Callable
}

func (v *FunctionValue) Kind() Kind { return KindFunction }

// NewFunctionValue wraps c in a function handle.
func NewFunctionValue(c Callable) *FunctionValue {
	return &FunctionValue{Callable: c}
}
