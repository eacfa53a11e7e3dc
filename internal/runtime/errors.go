package runtime

import (
	"errors"
	"fmt"

	"github.com/you-not-fish/lox/internal/syntax"
)

// ErrorKind classifies a runtime error.
type ErrorKind uint8

const (
	TypeMismatch ErrorKind = iota + 1
	DivisionByZero
	UndefinedVariable
	NotCallable
	ArityMismatch
	StepLimitExceeded
)

var errorKindNames = [...]string{
	TypeMismatch:      "type mismatch",
	DivisionByZero:    "division by zero",
	UndefinedVariable: "undefined variable",
	NotCallable:       "not callable",
	ArityMismatch:     "arity mismatch",
	StepLimitExceeded: "step limit exceeded",
}

func (k ErrorKind) String() string {
	if k > 0 && int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", k)
}

// Error is a runtime failure. It aborts the statement being executed.
type Error struct {
	Kind ErrorKind
	Pos  syntax.Pos // invalid if unknown
	Msg  string
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return e.Pos.String() + ": " + e.Msg
	}
	return e.Msg
}

// Errorf creates a positionless runtime error.
func Errorf(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// At fills in the error position unless it is already known.
func (e *Error) At(pos syntax.Pos) *Error {
	if !e.Pos.IsValid() {
		e.Pos = pos
	}
	return e
}

// IsKind reports whether err is a runtime error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var re *Error
	return errors.As(err, &re) && re.Kind == kind
}
