package data

// CompositeContext chains multiple contexts, with earlier contexts
// shadowing values from later ones in the chain.
type CompositeContext struct {
	contexts []Context
}

// NewCompositeContext creates a context that queries the given contexts in order.
// Reads return the first binding found; writes go to the first context that
// already binds the name, falling back to the first context in the chain.
func NewCompositeContext(contexts ...Context) *CompositeContext {
	return &CompositeContext{
		contexts: contexts,
	}
}

// Get returns the value from the first context that binds name.
func (c *CompositeContext) Get(name string) any {
	for _, ctx := range c.contexts {
		if ctx == nil {
			continue
		}
		if ctx.Has(name) {
			return ctx.Get(name)
		}
	}
	return nil
}

// Set updates name in the first context that already binds it, so shadowed
// bindings stay shadowed. An unbound name is created in the head context.
func (c *CompositeContext) Set(name string, value any) error {
	var first Context
	for _, ctx := range c.contexts {
		if ctx == nil {
			continue
		}
		if first == nil {
			first = ctx
		}
		if ctx.Has(name) {
			return ctx.Set(name, value)
		}
	}
	if first == nil {
		return ErrNoContext
	}
	return first.Set(name, value)
}

// Has reports whether any context in the chain binds name.
func (c *CompositeContext) Has(name string) bool {
	for _, ctx := range c.contexts {
		if ctx != nil && ctx.Has(name) {
			return true
		}
	}
	return false
}
