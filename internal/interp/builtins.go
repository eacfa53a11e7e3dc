package interp

import (
	"fmt"
	"strings"

	"github.com/you-not-fish/lox/internal/runtime"
)

func (i *Interpreter) defineBuiltins() {
	i.DefineNative("print", -1, i.print)
	i.DefineNative("clock", 0, i.clock)
}

// print writes its arguments separated by single spaces, then a newline.
func (i *Interpreter) print(args []runtime.Value) (runtime.Value, error) {
	parts := make([]string, len(args))
	for k, a := range args {
		parts[k] = runtime.Format(a)
	}
	if _, err := fmt.Fprintln(i.out, strings.Join(parts, " ")); err != nil {
		return nil, fmt.Errorf("write output: %w", err)
	}
	return runtime.Null, nil
}

// clock returns the seconds elapsed since the interpreter was created.
func (i *Interpreter) clock([]runtime.Value) (runtime.Value, error) {
	return runtime.NumberValue{Val: i.now().Sub(i.start).Seconds()}, nil
}
