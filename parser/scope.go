package parser

import "strings"

// undefined marks a frame slot that has not been bound yet. It is distinct
// from nil so partially-applied frames can tell "bound to nil" apart from
// "not bound".
type undefinedKind struct{}

var undefined any = undefinedKind{}

// Scope records the parameters and local variables of one script. Slot
// indices are assigned in declaration order, parameters first.
type Scope struct {
	params  []string
	varArgs bool
	names   []string
	index   map[string]int
}

// NewScope builds a scope from declared parameter names. A trailing "..."
// on the last name marks the script variadic.
func NewScope(params []string) (*Scope, error) {
	s := &Scope{index: make(map[string]int)}
	for i, name := range params {
		if strings.HasSuffix(name, "...") {
			if i != len(params)-1 {
				return nil, newParseError(Position{}, "variadic parameter %q must be last", name)
			}
			name = strings.TrimSuffix(name, "...")
			s.varArgs = true
		}
		if name == "" || !isIdentName(name) {
			return nil, newParseError(Position{}, "invalid parameter name %q", name)
		}
		if _, dup := s.index[name]; dup {
			return nil, newParseError(Position{}, "duplicate parameter %q", name)
		}
		s.index[name] = len(s.names)
		s.names = append(s.names, name)
		s.params = append(s.params, name)
	}
	return s, nil
}

func isIdentName(name string) bool {
	for i, r := range name {
		if i == 0 && !isIdentStart(r) {
			return false
		}
		if i > 0 && !isIdentPart(r) {
			return false
		}
	}
	return len(name) > 0
}

// DeclareLocal registers a local variable and returns its slot index.
func (s *Scope) DeclareLocal(name string) (int, bool) {
	if _, dup := s.index[name]; dup {
		return 0, false
	}
	sym := len(s.names)
	s.index[name] = sym
	s.names = append(s.names, name)
	return sym, true
}

// Symbol returns the slot index of a declared name.
func (s *Scope) Symbol(name string) (int, bool) {
	sym, ok := s.index[name]
	return sym, ok
}

// Parameters returns a copy of the declared parameter names, or nil.
func (s *Scope) Parameters() []string {
	if len(s.params) == 0 {
		return nil
	}
	out := make([]string, len(s.params))
	copy(out, s.params)
	return out
}

// IsVarArgs reports whether the last parameter is variadic.
func (s *Scope) IsVarArgs() bool {
	return s.varArgs
}

// ArgCount returns the number of declared parameters.
func (s *Scope) ArgCount() int {
	return len(s.params)
}

// LocalNames returns the declared local variable names, or nil.
func (s *Scope) LocalNames() []string {
	if len(s.names) == len(s.params) {
		return nil
	}
	out := make([]string, len(s.names)-len(s.params))
	copy(out, s.names[len(s.params):])
	return out
}

// CreateFrame builds a frame for this scope with args bound positionally to
// the leading slots. Returns nil when the scope holds no names.
func (s *Scope) CreateFrame(args []any) *Frame {
	if len(s.names) == 0 {
		return nil
	}
	stack := make([]any, len(s.names))
	for i := range stack {
		stack[i] = undefined
	}
	n := min(len(args), len(stack))
	copy(stack[:n], args[:n])
	return &Frame{scope: s, stack: stack}
}

// Frame is the indexed slot storage one evaluation runs against. A frame is
// never shared between curry derivatives: Clone and Assign produce fresh
// copies so extending one chain cannot mutate another's captured state.
type Frame struct {
	scope *Scope
	stack []any
}

// Has reports whether slot i holds a bound value.
func (f *Frame) Has(i int) bool {
	return f != nil && i >= 0 && i < len(f.stack) && f.stack[i] != undefined
}

// Get returns the value at slot i, or nil when the slot is unbound.
func (f *Frame) Get(i int) any {
	if !f.Has(i) {
		return nil
	}
	return f.stack[i]
}

// Set binds slot i to value.
func (f *Frame) Set(i int, value any) {
	f.stack[i] = value
}

// Clone returns a frame with its own copy of the slot array.
func (f *Frame) Clone() *Frame {
	if f == nil {
		return nil
	}
	stack := make([]any, len(f.stack))
	copy(stack, f.stack)
	return &Frame{scope: f.scope, stack: stack}
}

// Assign returns a derived frame with values bound to the first still-unbound
// slots, in order. Binding to the next open slots rather than slot zero is
// what lets chained partial application continue where the previous
// application stopped. With no values to bind, the receiver is returned.
func (f *Frame) Assign(values []any) *Frame {
	if f == nil || len(values) == 0 {
		return f
	}
	next := f.Clone()
	n := 0
	for i := range next.stack {
		if n >= len(values) {
			break
		}
		if next.stack[i] == undefined {
			next.stack[i] = values[n]
			n++
		}
	}
	return next
}

// Size returns the number of slots.
func (f *Frame) Size() int {
	if f == nil {
		return 0
	}
	return len(f.stack)
}
