// Package engine couples parsed scripts with the machinery that runs them:
// frame construction, partial application, version-gated resolution caches
// and one-shot asynchronous callables.
//
// The Engine itself is cheap to share: it owns the reflective resolver, a
// parse cache and the logging configuration, and hands out Script values
// that can be executed repeatedly and concurrently.
package engine

import (
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/exlang/exl/data"
	"github.com/exlang/exl/internal/helpers"
	"github.com/exlang/exl/interp"
	"github.com/exlang/exl/introspect"
	"github.com/exlang/exl/parser"
)

// DefaultCacheSize is the parse-cache capacity used when no option overrides it.
const DefaultCacheSize = 256

// engineSerial distinguishes engine instances for hashing purposes.
var engineSerial atomic.Uint64

// Engine creates and runs scripts. All scripts created by one engine share
// its uberspect, so reloading the resolution environment invalidates their
// cached member resolutions together.
type Engine struct {
	id        uint64
	uber      *introspect.Uberspect
	cache     *lru.Cache[string, *parser.Program]
	cacheSize int

	logHandler slog.Handler
	logger     *slog.Logger
}

// Option configures an Engine during construction.
type Option func(*Engine) error

// WithLogHandler sets the slog handler used by the engine and everything it
// creates.
func WithLogHandler(handler slog.Handler) Option {
	return func(e *Engine) error {
		if handler == nil {
			return fmt.Errorf("log handler is nil")
		}
		e.logHandler = handler
		return nil
	}
}

// WithUberspect replaces the reflective resolver, letting several engines
// share one resolution generation.
func WithUberspect(u *introspect.Uberspect) Option {
	return func(e *Engine) error {
		if u == nil {
			return fmt.Errorf("uberspect is nil")
		}
		e.uber = u
		return nil
	}
}

// WithCacheSize sets the parse-cache capacity. Zero disables caching.
func WithCacheSize(size int) Option {
	return func(e *Engine) error {
		if size < 0 {
			return fmt.Errorf("cache size %d is negative", size)
		}
		e.cacheSize = size
		return nil
	}
}

// New creates an Engine with the provided options.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{}
	e.applyDefaults()

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("error applying engine option: %w", err)
		}
	}

	e.logHandler, e.logger = helpers.SetupLogger(e.logHandler, "engine", "Engine")
	if e.uber == nil {
		e.uber = introspect.New(e.logHandler)
	}
	if e.cacheSize > 0 {
		cache, err := lru.New[string, *parser.Program](e.cacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create parse cache: %w", err)
		}
		e.cache = cache
	}
	e.id = engineSerial.Add(1)
	return e, nil
}

func (e *Engine) applyDefaults() {
	e.cacheSize = DefaultCacheSize
}

func (e *Engine) String() string {
	return fmt.Sprintf("engine.Engine{id: %d, cacheSize: %d}", e.id, e.cacheSize)
}

// Uberspect returns the reflective resolver shared by this engine's scripts.
func (e *Engine) Uberspect() *introspect.Uberspect {
	return e.uber
}

// CreateScript parses source into an executable Script. The params declare
// the script's parameters in order; a trailing "..." on the last name marks
// the script variadic. Identical (source, params) pairs share one parsed
// tree through the engine's cache.
func (e *Engine) CreateScript(source string, params ...string) (Script, error) {
	source = strings.TrimSpace(source)

	var key string
	if e.cache != nil {
		key = helpers.SHA256(source + "\x00" + strings.Join(params, ","))
		if prog, ok := e.cache.Get(key); ok {
			e.logger.Debug("parse cache hit", "key", key[:12])
			return newScript(e, source, prog), nil
		}
	}

	prog, err := parser.Parse(source, params...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}
	if e.cache != nil {
		e.cache.Add(key, prog)
	}
	return newScript(e, source, prog), nil
}

// CreateExpression parses source as a single expression: no parameters and
// exactly one statement.
func (e *Engine) CreateExpression(source string) (Script, error) {
	s, err := e.CreateScript(source)
	if err != nil {
		return nil, err
	}
	if prog := s.(*script).prog; len(prog.Stmts) > 1 {
		return nil, fmt.Errorf("%w: %d statements", ErrAmbiguous, len(prog.Stmts))
	}
	return s, nil
}

// newInterpreter builds the interpreter for one evaluation.
func (e *Engine) newInterpreter(env data.Context, frame *parser.Frame) *interp.Interpreter {
	return interp.New(e.logHandler, e.uber, env, frame)
}
