package data

// readOnlyContext wraps a Context and rejects all writes.
type readOnlyContext struct {
	inner Context
}

// NewReadOnlyContext wraps ctx so script assignments to context variables
// fail with ErrReadOnly while reads pass through unchanged.
func NewReadOnlyContext(ctx Context) Context {
	return &readOnlyContext{inner: ctx}
}

func (r *readOnlyContext) Get(name string) any {
	return r.inner.Get(name)
}

func (r *readOnlyContext) Set(name string, value any) error {
	return ErrReadOnly
}

func (r *readOnlyContext) Has(name string) bool {
	return r.inner.Has(name)
}
