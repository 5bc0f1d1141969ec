package engine

import "errors"

var (
	ErrParseFailed = errors.New("script parsing failed")
	ErrAmbiguous   = errors.New("source is not a single expression")
)
