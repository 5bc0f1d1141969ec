// Package interp walks a parsed syntax tree and produces a value.
//
// An Interpreter is bound to one (tree, context, frame) triple and runs at
// most once. Cancellation is cooperative: Cancel flips an atomic state flag
// that evaluation re-checks at every statement boundary and loop back-edge,
// so a cancelled run stops at the next such point rather than within a
// bounded time. Doneness of the caller's context.Context is checked at the
// same points and surfaces as the same cancellation error.
package interp

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/exlang/exl/data"
	"github.com/exlang/exl/internal/helpers"
	"github.com/exlang/exl/introspect"
	"github.com/exlang/exl/parser"
)

const (
	stateReady int32 = iota
	stateRunning
	stateDone
	stateCancelled
)

// Interpreter evaluates one syntax tree against one context and frame.
type Interpreter struct {
	uber  *introspect.Uberspect
	env   data.Context
	frame *parser.Frame

	cancellable bool
	state       atomic.Int32

	logHandler slog.Handler
	logger     *slog.Logger
}

// New creates an interpreter bound to env and frame. Either may be nil: a
// nil env rejects context-variable writes, a nil frame means the script has
// no parameters or locals.
func New(handler slog.Handler, uber *introspect.Uberspect, env data.Context, frame *parser.Frame) *Interpreter {
	handler, logger := helpers.SetupLogger(handler, "interp", "Interpreter")
	return &Interpreter{
		uber:        uber,
		env:         env,
		frame:       frame,
		cancellable: true,
		logHandler:  handler,
		logger:      logger,
	}
}

// Interpret evaluates node and returns its value. It may be called once;
// later calls fail with ErrAlreadyRun, or ErrCancelled when the interpreter
// was cancelled before it ever ran.
func (i *Interpreter) Interpret(ctx context.Context, node parser.Node) (any, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !i.state.CompareAndSwap(stateReady, stateRunning) {
		if i.state.Load() == stateCancelled {
			return nil, evalError(node.Pos(), ErrCancelled)
		}
		return nil, ErrAlreadyRun
	}

	v, err := i.eval(ctx, node)
	if err != nil {
		i.state.CompareAndSwap(stateRunning, stateDone)
		return nil, err
	}
	if !i.state.CompareAndSwap(stateRunning, stateDone) {
		// A cancel landed after the last checkpoint; honor it.
		return nil, evalError(node.Pos(), ErrCancelled)
	}
	return v, nil
}

// Cancel requests cooperative cancellation. It reports whether the request
// was accepted: a completed or non-cancellable interpreter refuses.
func (i *Interpreter) Cancel() bool {
	if !i.cancellable {
		return false
	}
	return i.state.CompareAndSwap(stateReady, stateCancelled) ||
		i.state.CompareAndSwap(stateRunning, stateCancelled)
}

// IsCancelled reports whether cancellation was observed or requested.
func (i *Interpreter) IsCancelled() bool {
	return i.state.Load() == stateCancelled
}

// IsCancellable reports whether Cancel can take effect.
func (i *Interpreter) IsCancellable() bool {
	return i.cancellable
}

// check is the cancellation checkpoint.
func (i *Interpreter) check(ctx context.Context, at parser.Position) error {
	if i.state.Load() == stateCancelled {
		return evalError(at, ErrCancelled)
	}
	select {
	case <-ctx.Done():
		i.state.CompareAndSwap(stateRunning, stateCancelled)
		return evalError(at, ErrCancelled)
	default:
		return nil
	}
}

func (i *Interpreter) eval(ctx context.Context, n parser.Node) (any, error) {
	switch t := n.(type) {
	case *parser.Program:
		return i.evalSequence(ctx, t.Stmts)

	case *parser.Literal:
		return t.Value, nil

	case *parser.Ident:
		return i.evalIdent(t), nil

	case *parser.ArrayLit:
		out := make([]any, len(t.Elems))
		for idx, e := range t.Elems {
			v, err := i.eval(ctx, e)
			if err != nil {
				return nil, err
			}
			out[idx] = v
		}
		return out, nil

	case *parser.Unary:
		return i.evalUnary(ctx, t)

	case *parser.Binary:
		return i.evalBinary(ctx, t)

	case *parser.Ternary:
		cond, err := i.eval(ctx, t.Cond)
		if err != nil {
			return nil, err
		}
		if truthy(cond) {
			return i.eval(ctx, t.Then)
		}
		return i.eval(ctx, t.Else)

	case *parser.Assign:
		return i.evalAssign(ctx, t)

	case *parser.Access:
		obj, err := i.eval(ctx, t.X)
		if err != nil {
			return nil, err
		}
		v, err := i.uber.GetProperty(t.ResolverCache(), obj, t.Name)
		if err != nil {
			return nil, evalError(t.At, err)
		}
		return v, nil

	case *parser.Index:
		return i.evalIndex(ctx, t)

	case *parser.Call:
		obj, err := i.eval(ctx, t.X)
		if err != nil {
			return nil, err
		}
		args, err := i.evalArgs(ctx, t.Args)
		if err != nil {
			return nil, err
		}
		v, err := i.uber.Invoke(t.ResolverCache(), obj, t.Name, args)
		if err != nil {
			return nil, evalError(t.At, err)
		}
		return v, nil

	case *parser.FuncCall:
		return i.evalFuncCall(ctx, t)

	case *parser.VarDecl:
		v, err := i.eval(ctx, t.Value)
		if err != nil {
			return nil, err
		}
		i.frame.Set(t.Symbol, v)
		return v, nil

	case *parser.If:
		cond, err := i.eval(ctx, t.Cond)
		if err != nil {
			return nil, err
		}
		if truthy(cond) {
			return i.eval(ctx, t.Then)
		}
		if t.Else != nil {
			return i.eval(ctx, t.Else)
		}
		return nil, nil

	case *parser.While:
		for {
			if err := i.check(ctx, t.At); err != nil {
				return nil, err
			}
			cond, err := i.eval(ctx, t.Cond)
			if err != nil {
				return nil, err
			}
			if !truthy(cond) {
				return nil, nil
			}
			if _, err := i.eval(ctx, t.Body); err != nil {
				return nil, err
			}
		}

	case *parser.Block:
		return i.evalSequence(ctx, t.Stmts)
	}

	return nil, evalErrorf(n.Pos(), "unknown node %T", n)
}

// evalSequence runs statements in order with a cancellation checkpoint
// between each, returning the last value.
func (i *Interpreter) evalSequence(ctx context.Context, stmts []parser.Node) (any, error) {
	var last any
	for _, s := range stmts {
		if err := i.check(ctx, s.Pos()); err != nil {
			return nil, err
		}
		v, err := i.eval(ctx, s)
		if err != nil {
			return nil, err
		}
		last = v
	}
	return last, nil
}

// evalIdent resolves an identifier. Frame slots win over context variables;
// a declared but unbound slot reads as null, matching the lenient treatment
// of missing arguments.
func (i *Interpreter) evalIdent(t *parser.Ident) any {
	if t.Symbol != parser.NoSymbol {
		return i.frame.Get(t.Symbol)
	}
	if i.env != nil {
		return i.env.Get(t.Name)
	}
	return nil
}

func (i *Interpreter) evalArgs(ctx context.Context, nodes []parser.Node) ([]any, error) {
	if len(nodes) == 0 {
		return nil, nil
	}
	args := make([]any, len(nodes))
	for idx, n := range nodes {
		v, err := i.eval(ctx, n)
		if err != nil {
			return nil, err
		}
		args[idx] = v
	}
	return args, nil
}

func (i *Interpreter) evalAssign(ctx context.Context, t *parser.Assign) (any, error) {
	value, err := i.eval(ctx, t.Value)
	if err != nil {
		return nil, err
	}

	switch target := t.Target.(type) {
	case *parser.Ident:
		if target.Symbol != parser.NoSymbol {
			i.frame.Set(target.Symbol, value)
			return value, nil
		}
		if i.env == nil {
			return nil, evalError(t.At, ErrNoContext)
		}
		if err := i.env.Set(target.Name, value); err != nil {
			return nil, evalError(t.At, err)
		}
		return value, nil

	case *parser.Access:
		obj, err := i.eval(ctx, target.X)
		if err != nil {
			return nil, err
		}
		if err := i.uber.SetProperty(obj, target.Name, value); err != nil {
			return nil, evalError(t.At, err)
		}
		return value, nil

	case *parser.Index:
		obj, err := i.eval(ctx, target.X)
		if err != nil {
			return nil, err
		}
		key, err := i.eval(ctx, target.Key)
		if err != nil {
			return nil, err
		}
		if err := setIndexed(obj, key, value); err != nil {
			return nil, evalError(t.At, err)
		}
		return value, nil
	}

	return nil, evalErrorf(t.At, "invalid assignment target %T", t.Target)
}

func (i *Interpreter) evalIndex(ctx context.Context, t *parser.Index) (any, error) {
	obj, err := i.eval(ctx, t.X)
	if err != nil {
		return nil, err
	}
	key, err := i.eval(ctx, t.Key)
	if err != nil {
		return nil, err
	}
	v, err := getIndexed(obj, key)
	if err != nil {
		return nil, evalError(t.At, err)
	}
	return v, nil
}

func (i *Interpreter) evalFuncCall(ctx context.Context, t *parser.FuncCall) (any, error) {
	callee, err := i.eval(ctx, t.Callee)
	if err != nil {
		return nil, err
	}
	args, err := i.evalArgs(ctx, t.Args)
	if err != nil {
		return nil, err
	}
	v, err := callValue(callee, args)
	if err != nil {
		return nil, evalError(t.At, err)
	}
	return v, nil
}

func (i *Interpreter) evalUnary(ctx context.Context, t *parser.Unary) (any, error) {
	v, err := i.eval(ctx, t.X)
	if err != nil {
		return nil, err
	}
	switch t.Op {
	case "!":
		return !truthy(v), nil
	case "-":
		return negate(t.At, v)
	}
	return nil, evalErrorf(t.At, "unknown unary operator %q", t.Op)
}

func (i *Interpreter) evalBinary(ctx context.Context, t *parser.Binary) (any, error) {
	// Short-circuit operators evaluate the right side lazily.
	switch t.Op {
	case "&&":
		l, err := i.eval(ctx, t.L)
		if err != nil {
			return nil, err
		}
		if !truthy(l) {
			return false, nil
		}
		r, err := i.eval(ctx, t.R)
		if err != nil {
			return nil, err
		}
		return truthy(r), nil
	case "||":
		l, err := i.eval(ctx, t.L)
		if err != nil {
			return nil, err
		}
		if truthy(l) {
			return true, nil
		}
		r, err := i.eval(ctx, t.R)
		if err != nil {
			return nil, err
		}
		return truthy(r), nil
	}

	l, err := i.eval(ctx, t.L)
	if err != nil {
		return nil, err
	}
	r, err := i.eval(ctx, t.R)
	if err != nil {
		return nil, err
	}
	return applyBinary(t.At, t.Op, l, r)
}
