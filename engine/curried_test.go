package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCurryIdentityNoOps(t *testing.T) {
	eng := newTestEngine(t)

	t.Run("empty args return the same script", func(t *testing.T) {
		s, err := eng.CreateScript(`x`, "x")
		require.NoError(t, err)
		require.Same(t, s, s.Curry())
	})

	t.Run("zero parameters return the same script", func(t *testing.T) {
		s, err := eng.CreateScript(`1 + 1`)
		require.NoError(t, err)
		require.Same(t, s, s.Curry("anything", 2, 3))
	})

	t.Run("empty args on a curried script", func(t *testing.T) {
		s, err := eng.CreateScript(`x + y`, "x", "y")
		require.NoError(t, err)
		c := s.Curry(int64(1))
		require.Same(t, c, c.Curry())
	})
}

func TestCurryNonVariadic(t *testing.T) {
	eng := newTestEngine(t)
	s, err := eng.CreateScript(`x * 100 + y`, "x", "y")
	require.NoError(t, err)

	t.Run("curry then execute with the rest", func(t *testing.T) {
		c := s.Curry(int64(10))
		got, err := c.Execute(context.Background(), nil, int64(20))
		require.NoError(t, err)
		require.Equal(t, int64(1020), got)
	})

	t.Run("chained currying continues positionally", func(t *testing.T) {
		c := s.Curry(int64(10)).Curry(int64(20))
		got, err := c.Execute(context.Background(), nil)
		require.NoError(t, err)
		require.Equal(t, int64(1020), got)
	})

	t.Run("base frame is not mutated by execution", func(t *testing.T) {
		c := s.Curry(int64(10))
		_, err := c.Execute(context.Background(), nil, int64(20))
		require.NoError(t, err)
		got, err := c.Execute(context.Background(), nil, int64(30))
		require.NoError(t, err)
		require.Equal(t, int64(1030), got)
	})
}

func TestCurryVariadic(t *testing.T) {
	eng := newTestEngine(t)
	s, err := eng.CreateScript(`[a, b, c]`, "a", "b", "c...")
	require.NoError(t, err)

	t.Run("incremental currying merges the variadic slot", func(t *testing.T) {
		c := s.Curry(1, 2, 3).Curry(4, 5)
		got, err := c.Execute(context.Background(), nil)
		require.NoError(t, err)
		require.Equal(t, []any{1, 2, []any{3, 4, 5}}, got)
	})

	t.Run("incremental equals batch currying", func(t *testing.T) {
		batch := s.Curry(1, 2, 3, 4, 5)
		incremental := s.Curry(1, 2, 3).Curry(4, 5)

		want, err := batch.Execute(context.Background(), nil)
		require.NoError(t, err)
		got, err := incremental.Execute(context.Background(), nil)
		require.NoError(t, err)
		require.Equal(t, want, got)
	})

	t.Run("currying below the variadic slot binds through", func(t *testing.T) {
		c := s.Curry(1).Curry(2, 3, 4)
		got, err := c.Execute(context.Background(), nil)
		require.NoError(t, err)
		require.Equal(t, []any{1, 2, []any{3, 4}}, got)
	})

	t.Run("executing a saturated curry extends it for one call", func(t *testing.T) {
		c := s.Curry(1, 2, 3)
		got, err := c.Execute(context.Background(), nil, 4)
		require.NoError(t, err)
		require.Equal(t, []any{1, 2, []any{3, 4}}, got)

		// the captured frame was cloned, not extended in place
		got, err = c.Execute(context.Background(), nil)
		require.NoError(t, err)
		require.Equal(t, []any{1, 2, []any{3}}, got)
	})

	t.Run("sibling chains stay isolated", func(t *testing.T) {
		base := s.Curry(1, 2, 3)
		left := base.Curry(4)
		right := base.Curry(5)

		lv, err := left.Execute(context.Background(), nil)
		require.NoError(t, err)
		rv, err := right.Execute(context.Background(), nil)
		require.NoError(t, err)
		require.Equal(t, []any{1, 2, []any{3, 4}}, lv)
		require.Equal(t, []any{1, 2, []any{3, 5}}, rv)
	})
}

func TestCurryRemainingParameters(t *testing.T) {
	eng := newTestEngine(t)

	t.Run("non-variadic", func(t *testing.T) {
		s, err := eng.CreateScript(`x + y`, "x", "y")
		require.NoError(t, err)
		require.Equal(t, []string{"y"}, s.Curry(1).Parameters())
		require.Nil(t, s.Curry(1, 2).Parameters(), "saturated call has no remaining parameters")
	})

	t.Run("variadic keeps the last parameter open", func(t *testing.T) {
		s, err := eng.CreateScript(`c`, "a", "b", "c...")
		require.NoError(t, err)
		require.Equal(t, []string{"b", "c"}, s.Curry(1).Parameters())
		require.Equal(t, []string{"c"}, s.Curry(1, 2, 3).Parameters())
		require.Equal(t, []string{"c"}, s.Curry(1, 2, 3).Curry(4, 5).Parameters())
	})
}

func TestCurriedTerminalExecution(t *testing.T) {
	// A curried script evaluates only the final statement of the body.
	eng := newTestEngine(t)
	s, err := eng.CreateScript(`var base = 100; x + y`, "x", "y")
	require.NoError(t, err)

	c := s.Curry(int64(1))
	got, err := c.Execute(context.Background(), nil, int64(2))
	require.NoError(t, err)
	require.Equal(t, int64(3), got)
}

func TestCurriedEqualityIsIdentity(t *testing.T) {
	eng := newTestEngine(t)
	s, err := eng.CreateScript(`x + y`, "x", "y")
	require.NoError(t, err)

	a := s.Curry(int64(1))
	b := s.Curry(int64(1))

	require.True(t, a.Equal(a))
	require.False(t, a.Equal(b), "identical bound arguments do not make curried scripts interchangeable")
	require.False(t, a.Equal(s))
	require.False(t, s.Equal(a))
	require.NotEqual(t, a.Hash(), b.Hash())
}

func TestPartialApplicationEndToEnd(t *testing.T) {
	// parameters (a, b, c...): curry(1,2,3), curry(4,5), execute()
	// must see a=1, b=2, c=[3,4,5]
	eng := newTestEngine(t)
	s, err := eng.CreateScript(`[a, b, c]`, "a", "b", "c...")
	require.NoError(t, err)

	got, err := s.Curry(1, 2, 3).Curry(4, 5).Execute(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, []any{1, 2, []any{3, 4, 5}}, got)
}
