package engine

import (
	"strings"

	"github.com/exlang/exl/parser"
)

// collectVariables gathers the free variable references of a parsed tree:
// every identifier that resolves through the context rather than a frame
// slot. Dotted property chains rooted in a context variable are reported as
// one reference split into fragments, so `user.address.city` yields
// {"user", "address", "city"} rather than three entries.
func collectVariables(prog *parser.Program) [][]string {
	seen := make(map[string]bool)
	var out [][]string

	record := func(ref []string) {
		key := strings.Join(ref, "\x00")
		if !seen[key] {
			seen[key] = true
			out = append(out, ref)
		}
	}

	var collect func(n parser.Node)
	collect = func(n parser.Node) {
		if n == nil {
			return
		}
		if ref, ok := chainOf(n); ok {
			record(ref)
			return
		}
		switch t := n.(type) {
		case *parser.ArrayLit:
			for _, e := range t.Elems {
				collect(e)
			}
		case *parser.Unary:
			collect(t.X)
		case *parser.Binary:
			collect(t.L)
			collect(t.R)
		case *parser.Ternary:
			collect(t.Cond)
			collect(t.Then)
			collect(t.Else)
		case *parser.Assign:
			collect(t.Target)
			collect(t.Value)
		case *parser.Access:
			collect(t.X)
		case *parser.Index:
			collect(t.X)
			collect(t.Key)
		case *parser.Call:
			collect(t.X)
			for _, a := range t.Args {
				collect(a)
			}
		case *parser.FuncCall:
			collect(t.Callee)
			for _, a := range t.Args {
				collect(a)
			}
		case *parser.VarDecl:
			collect(t.Value)
		case *parser.If:
			collect(t.Cond)
			collect(t.Then)
			collect(t.Else)
		case *parser.While:
			collect(t.Cond)
			collect(t.Body)
		case *parser.Block:
			for _, s := range t.Stmts {
				collect(s)
			}
		}
	}

	for _, s := range prog.Stmts {
		collect(s)
	}
	return out
}

// chainOf reports the dotted fragments of n when it is a pure reference
// rooted in a context variable.
func chainOf(n parser.Node) ([]string, bool) {
	switch t := n.(type) {
	case *parser.Ident:
		if t.Symbol == parser.NoSymbol {
			return []string{t.Name}, true
		}
	case *parser.Access:
		if base, ok := chainOf(t.X); ok {
			return append(base, t.Name), true
		}
	}
	return nil, false
}
