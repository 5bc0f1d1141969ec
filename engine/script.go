package engine

import (
	"context"
	"hash/fnv"
	"sync/atomic"

	"github.com/exlang/exl/data"
	"github.com/exlang/exl/parser"
)

// Script is a parsed script bound to its engine. Implementations are safe
// for concurrent execution: every Execute call runs on its own interpreter
// and frame.
//
// Two variants exist: the plain script returned by Engine.CreateScript,
// compared by (engine, source) value equality, and the curried script
// returned by Curry, compared by identity only. Two curried instances built
// from structurally identical argument lists may still close over distinct
// captured values, so they are never interchangeable.
type Script interface {
	// Execute evaluates the script against env, binding args to the
	// declared parameters. Trailing arguments collapse into the variadic
	// slot when the script is variadic.
	Execute(ctx context.Context, env data.Context, args ...any) (any, error)

	// Curry binds args to the leading unbound parameters and returns a
	// script awaiting the rest. With no parameters or no args, the
	// receiver itself is returned unchanged.
	Curry(args ...any) Script

	// Callable wraps one future evaluation of the script into a one-shot
	// asynchronous handle. Nothing runs until Call.
	Callable(env data.Context, args ...any) *Callable

	// Parameters returns the not-yet-bound parameter names in declaration
	// order, nil when none remain.
	Parameters() []string

	// IsVarArgs reports whether the last parameter collects trailing
	// call arguments.
	IsVarArgs() bool

	// LocalVariables returns the script's declared local names, or nil.
	LocalVariables() []string

	// Variables returns the free (context-resolved) variable references,
	// each as the fragments of a dotted chain.
	Variables() [][]string

	// Pragmas returns the script's '#pragma' key/value map, or nil.
	Pragmas() map[string]any

	// Source returns the original source text, which may be empty for
	// synthetically built scripts.
	Source() string

	// ParsedText renders the parsed tree back to canonical source form.
	ParsedText() string

	// Engine returns the engine that created this script.
	Engine() *Engine

	// Equal reports whether other is interchangeable with this script.
	Equal(other Script) bool

	// Hash returns a value consistent with Equal.
	Hash() uint64

	String() string
}

// script is the plain (un-curried) Script implementation.
type script struct {
	eng     *Engine
	source  string
	prog    *parser.Program
	version atomic.Int64
}

func newScript(eng *Engine, source string, prog *parser.Program) *script {
	s := &script{eng: eng, source: source, prog: prog}
	s.version.Store(int64(eng.uber.Version()))
	return s
}

// checkCacheVersion drops the tree's memoized member resolutions when the
// uberspect generation moved since this script last ran. A stored generation
// of zero means the resolver was never meaningfully observed (construction
// ordering), so there is nothing to drop yet.
func (s *script) checkCacheVersion() {
	current := int64(s.eng.uber.Version())
	stored := s.version.Load()
	if stored == current {
		return
	}
	if stored > 0 {
		s.eng.logger.Debug("resolver generation moved, clearing node caches",
			"stored", stored, "current", current)
		s.prog.ClearCache()
	}
	s.version.Store(current)
}

// bindArgs shapes raw call arguments into a frame-ready argument array.
// curried is the number of call-site arguments already consumed by prior
// partial applications. Non-variadic scripts, empty argument lists and
// argument lists too short to reach the variadic slot pass through
// unchanged; otherwise the trailing arguments collapse into one slice bound
// to the last remaining slot.
func (s *script) bindArgs(curried int, args []any) []any {
	if !s.prog.IsVarArgs() || len(args) == 0 {
		return args
	}
	target := s.prog.ArgCount() - curried
	if len(args) < target {
		return args
	}
	if target > 0 {
		params := make([]any, target)
		copy(params, args[:target-1])
		varg := make([]any, len(args)-target+1)
		copy(varg, args[target-1:])
		params[target-1] = varg
		return params
	}
	// The fixed signature is fully consumed; everything rides in the
	// variadic slot.
	return []any{args}
}

func (s *script) createFrame(args []any) *parser.Frame {
	return s.prog.CreateFrame(args)
}

func (s *script) Execute(ctx context.Context, env data.Context, args ...any) (any, error) {
	s.checkCacheVersion()
	frame := s.createFrame(s.bindArgs(0, args))
	return s.eng.newInterpreter(env, frame).Interpret(ctx, s.prog)
}

func (s *script) Curry(args ...any) Script {
	if s.prog.ArgCount() == 0 || len(args) == 0 {
		return s
	}
	return curryBase(s, args)
}

func (s *script) Callable(env data.Context, args ...any) *Callable {
	frame := s.createFrame(s.bindArgs(0, args))
	return newCallable(s.eng, s.prog, s.checkCacheVersion, env, frame)
}

func (s *script) Parameters() []string {
	return s.prog.Parameters()
}

func (s *script) IsVarArgs() bool {
	return s.prog.IsVarArgs()
}

func (s *script) LocalVariables() []string {
	return s.prog.LocalVariables()
}

func (s *script) Variables() [][]string {
	return collectVariables(s.prog)
}

func (s *script) Pragmas() map[string]any {
	return s.prog.Pragmas()
}

func (s *script) Source() string {
	return s.source
}

func (s *script) ParsedText() string {
	return parser.Print(s.prog)
}

func (s *script) Engine() *Engine {
	return s.eng
}

// Equal holds for scripts of the same engine with identical source text.
// The parsed tree does not participate: two parses of the same text are
// interchangeable.
func (s *script) Equal(other Script) bool {
	o, ok := other.(*script)
	return ok && o.eng == s.eng && o.source == s.source
}

func (s *script) Hash() uint64 {
	h := fnv.New64a()
	var id [8]byte
	for i, v := 0, s.eng.id; i < 8; i, v = i+1, v>>8 {
		id[i] = byte(v)
	}
	h.Write(id[:])
	h.Write([]byte(s.source))
	return h.Sum64()
}

func (s *script) String() string {
	if s.source != "" {
		return s.source
	}
	return parser.Print(s.prog)
}
