// Package data defines the variable-storage abstraction scripts evaluate
// against. A Context supplies named values to the interpreter and receives
// assignments made by the script; implementations decide where those values
// actually live (a map, a chain of fallbacks, a read-only snapshot).
package data

// Getter retrieves a named value from a context.
type Getter interface {
	// Get returns the value bound to name, or nil when absent.
	Get(name string) any

	// Has reports whether name is bound, distinguishing an absent
	// variable from one explicitly bound to nil.
	Has(name string) bool
}

// Setter binds a named value into a context.
type Setter interface {
	// Set binds value to name. Implementations may refuse the write,
	// for example when the context is read-only.
	Set(name string, value any) error
}

// Context is the full variable store a script evaluates against.
// The interpreter resolves free variables through Get and routes
// assignments to undeclared names through Set.
type Context interface {
	Getter
	Setter
}

// MapContext is the simplest Context: a plain map of variable bindings.
// It is not safe for concurrent mutation; wrap access in a lock or use
// separate contexts when evaluating from multiple goroutines.
type MapContext map[string]any

// NewMapContext creates an empty map-backed context.
func NewMapContext() MapContext {
	return make(MapContext)
}

func (m MapContext) Get(name string) any {
	return m[name]
}

func (m MapContext) Set(name string, value any) error {
	m[name] = value
	return nil
}

func (m MapContext) Has(name string) bool {
	_, ok := m[name]
	return ok
}
