package parser

import (
	"errors"
	"fmt"
)

var (
	ErrEmptySource = errors.New("script source is empty")
)

// ParseError describes a syntax error with its source position.
type ParseError struct {
	Pos Position
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %s: %s", e.Pos, e.Msg)
}

func newParseError(pos Position, format string, args ...any) *ParseError {
	return &ParseError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
