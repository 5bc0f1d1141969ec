package introspect

import (
	"errors"
	"fmt"
)

var (
	ErrNilTarget       = errors.New("cannot resolve member on null")
	ErrUnknownProperty = errors.New("no such property")
	ErrUnknownMethod   = errors.New("no such method")
	ErrNotWritable     = errors.New("property is not writable")
	ErrBadArgument     = errors.New("argument mismatch")
)

func propertyError(err error, name string) error {
	return fmt.Errorf("property %q: %w", name, err)
}

func methodError(err error, name string) error {
	return fmt.Errorf("method %q: %w", name, err)
}
