package parser

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScopeDeclarations(t *testing.T) {
	scope, err := NewScope([]string{"a", "b"})
	require.NoError(t, err)

	sym, ok := scope.Symbol("a")
	require.True(t, ok)
	require.Equal(t, 0, sym)

	local, ok := scope.DeclareLocal("tmp")
	require.True(t, ok)
	require.Equal(t, 2, local)

	_, ok = scope.DeclareLocal("a")
	require.False(t, ok, "locals cannot shadow parameters")

	require.Equal(t, []string{"a", "b"}, scope.Parameters())
	require.Equal(t, []string{"tmp"}, scope.LocalNames())
}

func TestScopeVariadicMarker(t *testing.T) {
	scope, err := NewScope([]string{"a", "rest..."})
	require.NoError(t, err)
	require.True(t, scope.IsVarArgs())
	require.Equal(t, []string{"a", "rest"}, scope.Parameters())

	_, err = NewScope([]string{"rest...", "a"})
	require.Error(t, err)
}

func TestCreateFrame(t *testing.T) {
	scope, err := NewScope([]string{"a", "b"})
	require.NoError(t, err)

	t.Run("empty scope yields nil frame", func(t *testing.T) {
		empty, err := NewScope(nil)
		require.NoError(t, err)
		require.Nil(t, empty.CreateFrame([]any{1}))
	})

	t.Run("partial binding", func(t *testing.T) {
		f := scope.CreateFrame([]any{int64(1)})
		require.True(t, f.Has(0))
		require.False(t, f.Has(1))
		require.Equal(t, int64(1), f.Get(0))
		require.Nil(t, f.Get(1))
	})

	t.Run("nil binds as a value", func(t *testing.T) {
		f := scope.CreateFrame([]any{nil})
		require.True(t, f.Has(0), "explicit nil is a binding, not an empty slot")
	})
}

func TestFrameAssignFillsNextOpenSlots(t *testing.T) {
	scope, err := NewScope([]string{"x", "y", "z"})
	require.NoError(t, err)

	f := scope.CreateFrame([]any{int64(10)})
	g := f.Assign([]any{int64(20)})
	require.NotSame(t, f, g, "assign derives a fresh frame")
	require.Equal(t, int64(20), g.Get(1), "binding continues at the first open slot")
	require.False(t, g.Has(2))
	require.False(t, f.Has(1), "the source frame is untouched")

	h := g.Assign([]any{int64(30)})
	require.Equal(t, int64(30), h.Get(2))
}

func TestFrameAssignNoValues(t *testing.T) {
	scope, err := NewScope([]string{"x"})
	require.NoError(t, err)
	f := scope.CreateFrame(nil)
	require.Same(t, f, f.Assign(nil))
}

func TestFrameClone(t *testing.T) {
	scope, err := NewScope([]string{"x"})
	require.NoError(t, err)

	f := scope.CreateFrame([]any{int64(1)})
	g := f.Clone()
	g.Set(0, int64(2))
	require.Equal(t, int64(1), f.Get(0))
	require.Equal(t, int64(2), g.Get(0))

	var nilFrame *Frame
	require.Nil(t, nilFrame.Clone())
	require.Nil(t, nilFrame.Assign([]any{1}))
	require.False(t, nilFrame.Has(0))
	require.Equal(t, 0, nilFrame.Size())
}
