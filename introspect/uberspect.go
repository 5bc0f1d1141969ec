// Package introspect resolves property reads, property writes and method
// calls against arbitrary Go values at evaluation time.
//
// Resolution is reflective and therefore relatively expensive, so the
// resolved strategy for a given syntax node is memoized on the node itself.
// The Uberspect carries a generation counter: reloading the resolution
// environment bumps the generation, and scripts drop node caches populated
// under an older generation before evaluating again.
package introspect

import (
	"log/slog"
	"reflect"
	"sync/atomic"
	"unicode"
	"unicode/utf8"

	"github.com/exlang/exl/internal/helpers"
	"github.com/exlang/exl/parser"
)

// Uberspect performs reflective member resolution over Go values.
type Uberspect struct {
	version    atomic.Int64
	logHandler slog.Handler
	logger     *slog.Logger
}

// New creates an Uberspect. The generation starts at 1 so that a stored
// generation of zero can serve as a "never observed" sentinel.
func New(handler slog.Handler) *Uberspect {
	handler, logger := helpers.SetupLogger(handler, "introspect", "Uberspect")
	u := &Uberspect{
		logHandler: handler,
		logger:     logger,
	}
	u.version.Store(1)
	return u
}

// Version returns the current resolution generation.
func (u *Uberspect) Version() int {
	return int(u.version.Load())
}

// Reload invalidates every resolution strategy handed out so far by moving
// to a new generation. Callers holding cached strategies notice the bump and
// re-resolve.
func (u *Uberspect) Reload() {
	v := u.version.Add(1)
	u.logger.Debug("resolution environment reloaded", "version", v)
}

// GetProperty reads property name from obj. When cache is non-nil the
// resolved access strategy is memoized there and reused while the receiver
// type and generation still match.
func (u *Uberspect) GetProperty(cache *parser.CacheSlot, obj any, name string) (any, error) {
	if obj == nil {
		return nil, propertyError(ErrNilTarget, name)
	}

	if cache != nil {
		if g, ok := cache.Load().(*propertyGet); ok && g.matches(u.Version(), obj) {
			return g.get(obj)
		}
	}

	g, err := u.resolveGetter(obj, name)
	if err != nil {
		return nil, err
	}
	if cache != nil {
		cache.Store(g)
	}
	return g.get(obj)
}

// SetProperty writes value to property name of obj. Maps accept any key;
// struct fields require a pointer receiver to be writable.
func (u *Uberspect) SetProperty(obj any, name string, value any) error {
	if obj == nil {
		return propertyError(ErrNilTarget, name)
	}

	if m, ok := obj.(map[string]any); ok {
		m[name] = value
		return nil
	}

	rv := reflect.ValueOf(obj)
	if rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String {
		mv, err := convertValue(reflect.ValueOf(value), rv.Type().Elem())
		if err != nil {
			return propertyError(err, name)
		}
		rv.SetMapIndex(reflect.ValueOf(name), mv)
		return nil
	}

	elem := rv
	for elem.Kind() == reflect.Pointer {
		if elem.IsNil() {
			return propertyError(ErrNilTarget, name)
		}
		elem = elem.Elem()
	}
	if elem.Kind() != reflect.Struct {
		return propertyError(ErrNotWritable, name)
	}
	field := elem.FieldByName(exportedName(name))
	if !field.IsValid() {
		return propertyError(ErrUnknownProperty, name)
	}
	if !field.CanSet() {
		return propertyError(ErrNotWritable, name)
	}
	fv, err := convertValue(reflect.ValueOf(value), field.Type())
	if err != nil {
		return propertyError(err, name)
	}
	field.Set(fv)
	return nil
}

// Invoke calls method name on obj with args. When cache is non-nil the
// resolved method strategy is memoized there.
func (u *Uberspect) Invoke(cache *parser.CacheSlot, obj any, name string, args []any) (any, error) {
	if obj == nil {
		return nil, methodError(ErrNilTarget, name)
	}

	if cache != nil {
		if m, ok := cache.Load().(*methodExec); ok && m.matches(u.Version(), obj) {
			return m.invoke(obj, args)
		}
	}

	m, err := u.resolveMethod(obj, name)
	if err != nil {
		return nil, err
	}
	if cache != nil {
		cache.Store(m)
	}
	return m.invoke(obj, args)
}

// exportedName maps a script-side member name to the exported Go identifier:
// "name" resolves against "Name".
func exportedName(name string) string {
	r, w := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError || unicode.IsUpper(r) {
		return name
	}
	return string(unicode.ToUpper(r)) + name[w:]
}
