// Package exl is an embeddable expression language: source text is parsed
// once into a syntax tree and evaluated repeatedly, possibly with different
// contexts, curried argument sets, or from concurrent callers.
//
// The package-level helpers cover one-off use. For the "compile once, run
// many times" pattern, create an engine.Engine and hold on to the scripts it
// returns:
//
//	eng, err := exl.NewEngine()
//	script, err := eng.CreateScript("x + y", "x", "y")
//	v, err := script.Execute(ctx, env, 1, 2)
//
// Scripts support partial application and asynchronous execution:
//
//	add2 := script.Curry(2)
//	v, err := add2.Execute(ctx, env, 40)
//
//	call := script.Callable(env, 1, 2)
//	go call.Call(ctx)
package exl

import (
	"context"
	"sync"

	"github.com/exlang/exl/data"
	"github.com/exlang/exl/engine"
)

// Script is a parsed, executable script. See engine.Script.
type Script = engine.Script

// Context is the variable store scripts evaluate against. See data.Context.
type Context = data.Context

// NewEngine creates a script engine with the provided options.
func NewEngine(opts ...engine.Option) (*engine.Engine, error) {
	return engine.New(opts...)
}

// NewContext creates an empty map-backed variable context.
func NewContext() data.MapContext {
	return data.NewMapContext()
}

var defaultEngine = sync.OnceValues(func() (*engine.Engine, error) {
	return engine.New()
})

// Compile parses source on a shared default engine.
func Compile(source string, params ...string) (Script, error) {
	eng, err := defaultEngine()
	if err != nil {
		return nil, err
	}
	return eng.CreateScript(source, params...)
}

// Eval parses and evaluates source against env in one step, on a shared
// default engine. Repeated evaluation of the same source hits the engine's
// parse cache, but callers needing parameters or currying should Compile.
func Eval(ctx context.Context, source string, env Context) (any, error) {
	s, err := Compile(source)
	if err != nil {
		return nil, err
	}
	return s.Execute(ctx, env)
}
