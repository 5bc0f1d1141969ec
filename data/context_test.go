package data

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapContext(t *testing.T) {
	ctx := NewMapContext()
	require.False(t, ctx.Has("a"))
	require.Nil(t, ctx.Get("a"))

	require.NoError(t, ctx.Set("a", 1))
	require.True(t, ctx.Has("a"))
	require.Equal(t, 1, ctx.Get("a"))

	t.Run("explicit nil is a binding", func(t *testing.T) {
		require.NoError(t, ctx.Set("b", nil))
		require.True(t, ctx.Has("b"))
		require.Nil(t, ctx.Get("b"))
	})
}

func TestCompositeContext(t *testing.T) {
	locals := MapContext{"a": 1}
	globals := MapContext{"a": 10, "b": 20}
	ctx := NewCompositeContext(locals, nil, globals)

	t.Run("earlier contexts shadow later ones", func(t *testing.T) {
		require.Equal(t, 1, ctx.Get("a"))
		require.Equal(t, 20, ctx.Get("b"))
		require.True(t, ctx.Has("b"))
		require.False(t, ctx.Has("c"))
		require.Nil(t, ctx.Get("c"))
	})

	t.Run("writes follow the existing binding", func(t *testing.T) {
		require.NoError(t, ctx.Set("b", 21))
		require.Equal(t, 21, globals["b"])
		require.NotContains(t, locals, "b")
	})

	t.Run("new names land in the head context", func(t *testing.T) {
		require.NoError(t, ctx.Set("c", 3))
		require.Equal(t, 3, locals["c"])
	})

	t.Run("empty chain rejects writes", func(t *testing.T) {
		empty := NewCompositeContext()
		require.ErrorIs(t, empty.Set("x", 1), ErrNoContext)
	})
}

func TestReadOnlyContext(t *testing.T) {
	inner := MapContext{"a": 1}
	ctx := NewReadOnlyContext(inner)

	require.Equal(t, 1, ctx.Get("a"))
	require.True(t, ctx.Has("a"))
	require.ErrorIs(t, ctx.Set("a", 2), ErrReadOnly)
	require.Equal(t, 1, inner["a"], "the wrapped context is untouched")
}
