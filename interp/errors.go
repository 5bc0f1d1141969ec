package interp

import (
	"errors"
	"fmt"

	"github.com/exlang/exl/parser"
)

var (
	// ErrCancelled reports that cooperative cancellation was observed
	// before evaluation finished.
	ErrCancelled = errors.New("evaluation cancelled")

	// ErrAlreadyRun reports a second Interpret call on the same interpreter.
	ErrAlreadyRun = errors.New("interpreter has already run")

	ErrDivideByZero   = errors.New("division by zero")
	ErrInvalidOperand = errors.New("invalid operand")
	ErrNoContext      = errors.New("no context to hold variable")
)

// EvalError decorates an evaluation failure with its source position.
type EvalError struct {
	Pos parser.Position
	Err error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("eval error at %s: %v", e.Pos, e.Err)
}

func (e *EvalError) Unwrap() error {
	return e.Err
}

func evalErrorf(pos parser.Position, format string, args ...any) error {
	return &EvalError{Pos: pos, Err: fmt.Errorf(format, args...)}
}

func evalError(pos parser.Position, err error) error {
	var ee *EvalError
	if errors.As(err, &ee) {
		return err
	}
	return &EvalError{Pos: pos, Err: err}
}
