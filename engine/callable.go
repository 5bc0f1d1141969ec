package engine

import (
	"context"
	"sync"

	"github.com/exlang/exl/data"
	"github.com/exlang/exl/interp"
	"github.com/exlang/exl/parser"
)

// Callable is a one-shot asynchronous execution handle: one interpreter
// bound to one (script, context, frame) triple, intended to be handed to a
// worker pool or goroutine of the caller's choosing.
//
// The wrapped interpreter runs at most once. Concurrent Call invocations
// serialize on the instance's lock and all observe the single execution's
// outcome, value or failure alike. Cancellation is cooperative and surfaces
// as interp.ErrCancelled through the same outcome.
type Callable struct {
	interpreter *interp.Interpreter
	prog        *parser.Program
	check       func()

	mu     sync.Mutex
	done   bool
	result any
	err    error
}

func newCallable(eng *Engine, prog *parser.Program, check func(), env data.Context, frame *parser.Frame) *Callable {
	return &Callable{
		interpreter: eng.newInterpreter(env, frame),
		prog:        prog,
		check:       check,
	}
}

// Call runs the wrapped evaluation on first use and returns the recorded
// outcome on every use after that.
func (c *Callable) Call(ctx context.Context) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.done {
		c.check()
		c.result, c.err = c.interpreter.Interpret(ctx, c.prog)
		c.done = true
	}
	return c.result, c.err
}

// Cancel requests cooperative cancellation and reports whether the request
// was accepted. A completed execution cannot be cancelled.
func (c *Callable) Cancel() bool {
	return c.interpreter.Cancel()
}

// IsCancelled reports whether the execution was cancelled.
func (c *Callable) IsCancelled() bool {
	return c.interpreter.IsCancelled()
}

// IsCancellable reports whether Cancel can take effect.
func (c *Callable) IsCancellable() bool {
	return c.interpreter.IsCancellable()
}
