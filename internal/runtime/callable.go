package runtime

import (
	"strconv"

	"github.com/you-not-fish/lox/internal/syntax"
)

// Executor runs a function body. The interpreter implements it; the
// indirection keeps this package free of evaluator code.
type Executor interface {
	// ExecuteBlock runs stmts in env. The bool reports whether a return
	// statement was executed, in which case the Value is its result.
	ExecuteBlock(stmts []syntax.Stmt, env *Environment) (Value, bool, error)
}

// Callable is implemented by everything a FunctionValue can refer to.
type Callable interface {
	Name() string
	// Arity returns the expected argument count, or -1 if any count is accepted.
	Arity() int
	CheckArity(n int) bool
	Call(ex Executor, args []Value) (Value, error)
}

// ArityString renders the expected argument count of c for messages.
func ArityString(c Callable) string {
	if c.Arity() < 0 {
		return "any number of"
	}
	return strconv.Itoa(c.Arity())
}

// Function is a user-defined function closed over its declaring scope.
type Function struct {
	Decl    *syntax.FuncDecl
	Closure *Environment
}

// NewFunction creates a closure for decl that captures env.
func NewFunction(decl *syntax.FuncDecl, env *Environment) *Function {
	return &Function{Decl: decl, Closure: env}
}

func (f *Function) Name() string { return f.Decl.Name.Value }

func (f *Function) Arity() int { return len(f.Decl.Params) }

func (f *Function) CheckArity(n int) bool { return n == len(f.Decl.Params) }

// Call binds args to the parameters in a fresh scope whose parent is the
// closure scope, not the caller's, and runs the body there.
func (f *Function) Call(ex Executor, args []Value) (Value, error) {
	env := NewEnvironment(f.Closure)
	for i, param := range f.Decl.Params {
		env.Define(param.Value, args[i])
	}

	result, returned, err := ex.ExecuteBlock(f.Decl.Body.Stmts, env)
	if err != nil {
		return nil, err
	}
	if returned && result != nil {
		return result, nil
	}
	return Null, nil
}

// NativeFunc is the Go implementation of a built-in.
type NativeFunc func(args []Value) (Value, error)

// Builtin is a function implemented in Go.
type Builtin struct {
	name  string
	arity int
	impl  NativeFunc
}

// NewBuiltin creates a built-in function. An arity below zero makes it
// variadic.
func NewBuiltin(name string, arity int, impl NativeFunc) *Builtin {
	if arity < 0 {
		arity = -1
	}
	return &Builtin{name: name, arity: arity, impl: impl}
}

func (b *Builtin) Name() string { return b.name }

func (b *Builtin) Arity() int { return b.arity }

func (b *Builtin) CheckArity(n int) bool { return b.arity < 0 || n == b.arity }

func (b *Builtin) Call(_ Executor, args []Value) (Value, error) {
	v, err := b.impl(args)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return Null, nil
	}
	return v, nil
}
