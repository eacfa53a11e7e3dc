package interp

import (
	"fmt"

	"github.com/you-not-fish/lox/internal/runtime"
	"github.com/you-not-fish/lox/internal/syntax"
)

// execute runs one statement in env. The bool result is the return
// channel: once it is true every enclosing block and loop stops and
// passes the value up unchanged, until a function call consumes it.
func (i *Interpreter) execute(stmt syntax.Stmt, env *runtime.Environment) (runtime.Value, bool, error) {
	i.steps++
	if i.stepLimit > 0 && i.steps > i.stepLimit {
		err := runtime.Errorf(runtime.StepLimitExceeded, "step limit of %d statements exceeded", i.stepLimit)
		return nil, false, err.At(stmt.Pos())
	}

	switch n := stmt.(type) {
	case *syntax.ExprStmt:
		_, err := i.eval(n.X, env)
		return nil, false, err

	case *syntax.VarDecl:
		var v runtime.Value = runtime.Null
		if n.Value != nil {
			var err error
			if v, err = i.eval(n.Value, env); err != nil {
				return nil, false, err
			}
		}
		env.Define(n.Name.Value, v)
		return nil, false, nil

	case *syntax.BlockStmt:
		return i.ExecuteBlock(n.Stmts, runtime.NewEnvironment(env))

	case *syntax.IfStmt:
		cond, err := i.eval(n.Cond, env)
		if err != nil {
			return nil, false, err
		}
		if runtime.Truthy(cond) {
			return i.execute(n.Then, env)
		}
		if n.Else != nil {
			return i.execute(n.Else, env)
		}
		return nil, false, nil

	case *syntax.WhileStmt:
		for {
			cond, err := i.eval(n.Cond, env)
			if err != nil {
				return nil, false, err
			}
			if !runtime.Truthy(cond) {
				return nil, false, nil
			}
			if v, returned, err := i.execute(n.Body, env); err != nil || returned {
				return v, returned, err
			}
		}

	case *syntax.FuncDecl:
		fn := runtime.NewFunction(n, env)
		env.Define(n.Name.Value, runtime.NewFunctionValue(fn))
		return nil, false, nil

	case *syntax.ReturnStmt:
		var v runtime.Value = runtime.Null
		if n.Result != nil {
			var err error
			if v, err = i.eval(n.Result, env); err != nil {
				return nil, false, err
			}
		}
		return v, true, nil

	default:
		return nil, false, fmt.Errorf("%s: cannot execute %T", stmt.Pos(), stmt)
	}
}

// ExecuteBlock runs stmts in env, stopping at the first error or return.
// Callers pass a fresh child scope; dropping it on exit is what pops it.
func (i *Interpreter) ExecuteBlock(stmts []syntax.Stmt, env *runtime.Environment) (runtime.Value, bool, error) {
	for _, s := range stmts {
		v, returned, err := i.execute(s, env)
		if err != nil || returned {
			return v, returned, err
		}
	}
	return nil, false, nil
}
