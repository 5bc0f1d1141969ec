package engine

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/exlang/exl/introspect"
)

func TestNewEngine(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		eng, err := New()
		require.NoError(t, err)
		require.NotNil(t, eng.Uberspect())
		require.NotNil(t, eng.cache)
		require.Equal(t, DefaultCacheSize, eng.cacheSize)
	})

	t.Run("with options", func(t *testing.T) {
		u := introspect.New(nil)
		handler := slog.NewTextHandler(os.Stderr, nil)
		eng, err := New(WithLogHandler(handler), WithUberspect(u), WithCacheSize(8))
		require.NoError(t, err)
		require.Same(t, u, eng.Uberspect())
		require.Equal(t, 8, eng.cacheSize)
	})

	t.Run("zero cache size disables caching", func(t *testing.T) {
		eng, err := New(WithCacheSize(0))
		require.NoError(t, err)
		require.Nil(t, eng.cache)
	})

	t.Run("invalid options", func(t *testing.T) {
		_, err := New(WithCacheSize(-1))
		require.Error(t, err)
		_, err = New(WithUberspect(nil))
		require.Error(t, err)
		_, err = New(WithLogHandler(nil))
		require.Error(t, err)
	})
}

func TestCreateScript(t *testing.T) {
	eng := newTestEngine(t)

	t.Run("parse failure", func(t *testing.T) {
		_, err := eng.CreateScript(`1 +`)
		require.ErrorIs(t, err, ErrParseFailed)
	})

	t.Run("source is trimmed", func(t *testing.T) {
		s, err := eng.CreateScript("  1 + 1\n")
		require.NoError(t, err)
		require.Equal(t, "1 + 1", s.Source())
	})

	t.Run("cache shares the parsed tree", func(t *testing.T) {
		a, err := eng.CreateScript(`x + y`, "x", "y")
		require.NoError(t, err)
		b, err := eng.CreateScript(`x + y`, "x", "y")
		require.NoError(t, err)
		require.NotSame(t, a, b, "scripts are distinct values")
		require.Same(t, a.(*script).prog, b.(*script).prog, "the parse is shared")
	})

	t.Run("parameters are part of the cache key", func(t *testing.T) {
		a, err := eng.CreateScript(`x`, "x")
		require.NoError(t, err)
		b, err := eng.CreateScript(`x`)
		require.NoError(t, err)
		require.NotSame(t, a.(*script).prog, b.(*script).prog)
	})
}

func TestCreateExpression(t *testing.T) {
	eng := newTestEngine(t)

	s, err := eng.CreateExpression(`40 + 2`)
	require.NoError(t, err)
	got, err := s.Execute(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, int64(42), got)

	_, err = eng.CreateExpression(`1; 2`)
	require.ErrorIs(t, err, ErrAmbiguous)
}

func TestSharedUberspectInvalidation(t *testing.T) {
	// Two engines sharing an uberspect see each other's reloads.
	u := introspect.New(nil)
	a, err := New(WithUberspect(u))
	require.NoError(t, err)
	b, err := New(WithUberspect(u))
	require.NoError(t, err)

	s, err := a.CreateScript(`1`)
	require.NoError(t, err)
	sc := s.(*script)
	before := sc.version.Load()

	b.Uberspect().Reload()
	sc.checkCacheVersion()
	require.Equal(t, before+1, sc.version.Load())
}

func TestEngineString(t *testing.T) {
	eng := newTestEngine(t)
	require.Contains(t, eng.String(), "engine.Engine")
}
