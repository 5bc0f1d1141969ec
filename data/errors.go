package data

import "errors"

var (
	ErrReadOnly  = errors.New("context is read-only")
	ErrNoContext = errors.New("no context available for write")
)
