package parser

import "sync/atomic"

// Node is one element of the parsed syntax tree.
type Node interface {
	Pos() Position
}

// CacheSlot memoizes reflective resolution state on a node. Loads and stores
// are atomic so a cache clear racing an evaluation is benign: the worst case
// is a redundant re-resolution.
type CacheSlot struct {
	p atomic.Pointer[cacheEntry]
}

type cacheEntry struct {
	v any
}

// Load returns the cached resolution, or nil when empty.
func (c *CacheSlot) Load() any {
	if e := c.p.Load(); e != nil {
		return e.v
	}
	return nil
}

// Store replaces the cached resolution.
func (c *CacheSlot) Store(v any) {
	c.p.Store(&cacheEntry{v: v})
}

// Clear drops the cached resolution.
func (c *CacheSlot) Clear() {
	c.p.Store(nil)
}

// Cached is implemented by nodes that carry a resolution cache.
type Cached interface {
	ResolverCache() *CacheSlot
}

// NoSymbol marks an identifier that is not bound to a frame slot and must be
// resolved through the evaluation context.
const NoSymbol = -1

type (
	// Literal is a constant value: int64, float64, string, bool or nil.
	Literal struct {
		Value any
		At    Position
	}

	// Ident references a parameter or local (Symbol >= 0) or a context
	// variable (Symbol == NoSymbol).
	Ident struct {
		Name   string
		Symbol int
		At     Position
	}

	// ArrayLit is an array literal, evaluating to []any.
	ArrayLit struct {
		Elems []Node
		At    Position
	}

	// Unary is a prefix operation: '-' or '!'.
	Unary struct {
		Op string
		X  Node
		At Position
	}

	// Binary is an infix operation.
	Binary struct {
		Op   string
		L, R Node
		At   Position
	}

	// Ternary is the conditional expression cond ? then : else.
	Ternary struct {
		Cond, Then, Else Node
		At               Position
	}

	// Assign binds Value to Target (an Ident, Access or Index).
	Assign struct {
		Target Node
		Value  Node
		At     Position
	}

	// Access reads property Name from the value of X. Resolution is
	// memoized in Cache.
	Access struct {
		X     Node
		Name  string
		Cache CacheSlot
		At    Position
	}

	// Index reads X[Key].
	Index struct {
		X   Node
		Key Node
		At  Position
	}

	// Call invokes method Name on the value of X. Resolution is memoized
	// in Cache.
	Call struct {
		X     Node
		Name  string
		Args  []Node
		Cache CacheSlot
		At    Position
	}

	// FuncCall invokes the callee value (a Go func held by the frame or
	// context) with the given arguments.
	FuncCall struct {
		Callee Node
		Args   []Node
		At     Position
	}

	// VarDecl declares a local variable and binds its initial value.
	VarDecl struct {
		Name   string
		Symbol int
		Value  Node
		At     Position
	}

	// If is a conditional statement; Else may be nil.
	If struct {
		Cond Node
		Then Node
		Else Node
		At   Position
	}

	// While loops over Body while Cond holds.
	While struct {
		Cond Node
		Body Node
		At   Position
	}

	// Block is a braced statement sequence evaluating to its last statement.
	Block struct {
		Stmts []Node
		At    Position
	}
)

func (n *Literal) Pos() Position  { return n.At }
func (n *Ident) Pos() Position    { return n.At }
func (n *ArrayLit) Pos() Position { return n.At }
func (n *Unary) Pos() Position    { return n.At }
func (n *Binary) Pos() Position   { return n.At }
func (n *Ternary) Pos() Position  { return n.At }
func (n *Assign) Pos() Position   { return n.At }
func (n *Access) Pos() Position   { return n.At }
func (n *Index) Pos() Position    { return n.At }
func (n *Call) Pos() Position     { return n.At }
func (n *FuncCall) Pos() Position { return n.At }
func (n *VarDecl) Pos() Position  { return n.At }
func (n *If) Pos() Position       { return n.At }
func (n *While) Pos() Position    { return n.At }
func (n *Block) Pos() Position    { return n.At }

func (n *Access) ResolverCache() *CacheSlot { return &n.Cache }
func (n *Call) ResolverCache() *CacheSlot   { return &n.Cache }

// Walk visits n and every node below it in evaluation order.
func Walk(n Node, visit func(Node)) {
	if n == nil {
		return
	}
	visit(n)
	switch t := n.(type) {
	case *ArrayLit:
		for _, e := range t.Elems {
			Walk(e, visit)
		}
	case *Unary:
		Walk(t.X, visit)
	case *Binary:
		Walk(t.L, visit)
		Walk(t.R, visit)
	case *Ternary:
		Walk(t.Cond, visit)
		Walk(t.Then, visit)
		Walk(t.Else, visit)
	case *Assign:
		Walk(t.Target, visit)
		Walk(t.Value, visit)
	case *Access:
		Walk(t.X, visit)
	case *Index:
		Walk(t.X, visit)
		Walk(t.Key, visit)
	case *Call:
		Walk(t.X, visit)
		for _, a := range t.Args {
			Walk(a, visit)
		}
	case *FuncCall:
		Walk(t.Callee, visit)
		for _, a := range t.Args {
			Walk(a, visit)
		}
	case *VarDecl:
		Walk(t.Value, visit)
	case *If:
		Walk(t.Cond, visit)
		Walk(t.Then, visit)
		Walk(t.Else, visit)
	case *While:
		Walk(t.Cond, visit)
		Walk(t.Body, visit)
	case *Block:
		for _, s := range t.Stmts {
			Walk(s, visit)
		}
	}
}

// Program is the root of a parsed script. It is itself a Node: evaluating a
// Program runs every top-level statement and yields the last value.
type Program struct {
	scope   *Scope
	Stmts   []Node
	pragmas map[string]any
}

// Pos returns the position of the first statement.
func (p *Program) Pos() Position {
	if len(p.Stmts) == 0 {
		return Position{}
	}
	return p.Stmts[0].Pos()
}

// Parameters returns the declared parameter names, or nil when the script
// takes no parameters.
func (p *Program) Parameters() []string {
	return p.scope.Parameters()
}

// IsVarArgs reports whether the last parameter collects trailing arguments.
func (p *Program) IsVarArgs() bool {
	return p.scope.IsVarArgs()
}

// ArgCount returns the number of declared parameters.
func (p *Program) ArgCount() int {
	return p.scope.ArgCount()
}

// LocalVariables returns the names of locals declared with 'var', or nil.
func (p *Program) LocalVariables() []string {
	return p.scope.LocalNames()
}

// Pragmas returns the '#pragma' key/value map, or nil when the script
// declares none.
func (p *Program) Pragmas() map[string]any {
	return p.pragmas
}

// CreateFrame builds an evaluation frame with args bound to the leading
// parameter slots. Returns nil when the script declares no parameters or
// locals, meaning evaluation needs no frame at all.
func (p *Program) CreateFrame(args []any) *Frame {
	return p.scope.CreateFrame(args)
}

// ClearCache drops all memoized reflective resolution state below this
// program. Safe to call while another goroutine evaluates the same tree.
func (p *Program) ClearCache() {
	for _, s := range p.Stmts {
		Walk(s, func(n Node) {
			if c, ok := n.(Cached); ok {
				c.ResolverCache().Clear()
			}
		})
	}
}

// TerminalBlock returns the last top-level statement. A curried script
// evaluates only this node, producing exactly one value per invocation.
func (p *Program) TerminalBlock() Node {
	if len(p.Stmts) == 0 {
		return nil
	}
	return p.Stmts[len(p.Stmts)-1]
}
