// Package interp executes parsed Lox programs by walking the syntax tree.
package interp

import (
	"io"
	"log/slog"
	"time"

	"github.com/you-not-fish/lox/internal/runtime"
	"github.com/you-not-fish/lox/internal/syntax"
)

// Interpreter drives evaluation of Lox statements. It is not safe for
// concurrent use; every instance owns its own global scope.
type Interpreter struct {
	out     io.Writer
	globals *runtime.Environment
	env     *runtime.Environment // scope top-level statements run in

	now   func() time.Time
	start time.Time

	steps     int
	stepLimit int // 0 means unlimited

	log *slog.Logger
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithStepLimit bounds the number of statements executed over the
// interpreter's lifetime. Exceeding it fails with StepLimitExceeded.
func WithStepLimit(n int) Option {
	return func(i *Interpreter) {
		if n > 0 {
			i.stepLimit = n
		}
	}
}

// WithLogger sets the logger used for debug tracing of runtime errors.
func WithLogger(l *slog.Logger) Option {
	return func(i *Interpreter) {
		if l != nil {
			i.log = l
		}
	}
}

// WithClock replaces the time source used by the clock built-in.
func WithClock(now func() time.Time) Option {
	return func(i *Interpreter) {
		if now != nil {
			i.now = now
		}
	}
}

// New returns an interpreter that writes program output to out, with the
// built-in functions defined in its global scope.
func New(out io.Writer, opts ...Option) *Interpreter {
	i := &Interpreter{
		out:     out,
		globals: runtime.NewEnvironment(nil),
		now:     time.Now,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(i)
	}
	i.env = i.globals
	i.start = i.now()
	i.defineBuiltins()
	return i
}

// ReplMode pushes one persistent scope under the globals, so declarations
// made by successive inputs outlive each call to Interpret. Calling it more
// than once has no further effect.
func (i *Interpreter) ReplMode() {
	if i.env == i.globals {
		i.env = runtime.NewEnvironment(i.globals)
	}
}

// Scope returns the scope top-level statements run in.
func (i *Interpreter) Scope() *runtime.Environment {
	return i.env
}

// Globals returns the global scope holding the built-ins.
func (i *Interpreter) Globals() *runtime.Environment {
	return i.globals
}

// Steps returns the number of statements executed so far.
func (i *Interpreter) Steps() int {
	return i.steps
}

// DefineNative registers a built-in function in the global scope. A
// negative arity accepts any number of arguments.
func (i *Interpreter) DefineNative(name string, arity int, fn runtime.NativeFunc) {
	i.globals.Define(name, runtime.NewFunctionValue(runtime.NewBuiltin(name, arity, fn)))
}

// Interpret executes stmts in order. The first runtime error aborts the
// remaining statements and is returned. A top-level return stops execution
// without error.
func (i *Interpreter) Interpret(stmts []syntax.Stmt) error {
	for _, s := range stmts {
		_, returned, err := i.execute(s, i.env)
		if err != nil {
			i.log.Debug("runtime error", "pos", s.Pos().String(), "err", err)
			return err
		}
		if returned {
			return nil
		}
	}
	return nil
}

// InterpretEach executes stmts in order, continuing with the next
// top-level statement after a runtime error. It returns every error.
func (i *Interpreter) InterpretEach(stmts []syntax.Stmt) []error {
	var errs []error
	for _, s := range stmts {
		_, returned, err := i.execute(s, i.env)
		if err != nil {
			i.log.Debug("runtime error", "pos", s.Pos().String(), "err", err)
			errs = append(errs, err)
			continue
		}
		if returned {
			break
		}
	}
	return errs
}

// Eval evaluates a single expression in the top-level scope.
func (i *Interpreter) Eval(x syntax.Expr) (runtime.Value, error) {
	return i.eval(x, i.env)
}
