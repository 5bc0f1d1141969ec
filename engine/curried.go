package engine

import (
	"context"
	"reflect"

	"github.com/exlang/exl/data"
	"github.com/exlang/exl/parser"
)

// curried is a script with some of its parameters already bound.
//
// The captured frame holds the bound values; bound counts the call-site
// arguments supplied across the whole curry chain. The two diverge on
// variadic scripts, where several calls' arguments collapse into the single
// trailing slot, which is why the count is tracked separately instead of
// being derived from the frame.
type curried struct {
	script
	frame *parser.Frame
	bound int
}

// curryBase starts a curry chain from a plain script.
func curryBase(base *script, args []any) *curried {
	c := newCurried(base)
	c.frame = base.prog.CreateFrame(c.bindArgs(0, args))
	c.bound = len(args)
	return c
}

// curryChain extends an existing curry chain. The new instance merges onto
// the previous instance's frame, never the root script's: currying is
// compositional.
func curryChain(prev *curried, args []any) *curried {
	c := newCurried(&prev.script)
	switch {
	case !c.prog.IsVarArgs():
		c.frame = prev.frame.Assign(args)
	case prev.bound >= c.prog.ArgCount():
		// The variadic slot is already populated; extend it in place
		// on a cloned frame rather than re-binding.
		c.frame = mergeVarArgs(c.prog, prev.frame, args)
	default:
		c.frame = prev.frame.Assign(c.bindArgs(prev.bound, args))
	}
	c.bound = prev.bound + len(args)
	return c
}

func newCurried(base *script) *curried {
	c := &curried{script: script{eng: base.eng, source: base.source, prog: base.prog}}
	c.version.Store(int64(base.eng.uber.Version()))
	return c
}

// mergeVarArgs clones sf and concatenates args onto the slice held in the
// variadic slot. The clone keeps other curry derivatives sharing sf
// unaffected.
func mergeVarArgs(prog *parser.Program, sf *parser.Frame, args []any) *parser.Frame {
	if len(args) == 0 {
		return sf
	}
	pos := prog.ArgCount() - 1
	next := sf.Clone()
	existing, _ := next.Get(pos).([]any)
	merged := make([]any, 0, len(existing)+len(args))
	merged = append(merged, existing...)
	merged = append(merged, args...)
	next.Set(pos, merged)
	return next
}

// callFrame produces the frame for one execution, binding the call's args
// after everything the chain already captured.
func (c *curried) callFrame(args []any) *parser.Frame {
	if c.frame == nil {
		return c.prog.CreateFrame(c.bindArgs(0, args))
	}
	switch {
	case !c.prog.IsVarArgs():
		return c.frame.Assign(args)
	case c.bound >= c.prog.ArgCount():
		return mergeVarArgs(c.prog, c.frame, args)
	default:
		return c.frame.Assign(c.bindArgs(c.bound, args))
	}
}

// createFrame supports Callable construction: the captured frame absorbs
// the extra arguments positionally.
func (c *curried) createFrame(args []any) *parser.Frame {
	if c.frame != nil {
		return c.frame.Assign(args)
	}
	return c.prog.CreateFrame(args)
}

// Execute runs only the script's terminal statement: a closure produced by
// currying yields exactly one value per invocation.
func (c *curried) Execute(ctx context.Context, env data.Context, args ...any) (any, error) {
	c.checkCacheVersion()
	frame := c.callFrame(args)
	return c.eng.newInterpreter(env, frame).Interpret(ctx, c.prog.TerminalBlock())
}

func (c *curried) Curry(args ...any) Script {
	if c.prog.ArgCount() == 0 || len(args) == 0 {
		return c
	}
	return curryChain(c, args)
}

func (c *curried) Callable(env data.Context, args ...any) *Callable {
	frame := c.createFrame(c.bindArgs(0, args))
	return newCallable(c.eng, c.prog, c.checkCacheVersion, env, frame)
}

// Parameters returns the names still awaiting a binding. On a saturated
// variadic script the last parameter stays open for further arguments; a
// saturated non-variadic script has nothing left and returns nil.
func (c *curried) Parameters() []string {
	params := c.prog.Parameters()
	if len(params) == 0 {
		return params
	}
	if c.bound >= len(params) {
		if c.prog.IsVarArgs() {
			return []string{params[len(params)-1]}
		}
		return nil
	}
	return params[c.bound:]
}

// Equal is identity equality: curried scripts close over captured values
// and are never interchangeable with one another.
func (c *curried) Equal(other Script) bool {
	o, ok := other.(*curried)
	return ok && o == c
}

func (c *curried) Hash() uint64 {
	return uint64(reflect.ValueOf(c).Pointer())
}
