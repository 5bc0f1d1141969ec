package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/exlang/exl/data"
	"github.com/exlang/exl/interp"
)

type tally struct {
	mu sync.Mutex
	n  int64
}

func (c *tally) Incr() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
	return c.n
}

func (c *tally) Count() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

func TestCallableRunsOnce(t *testing.T) {
	eng := newTestEngine(t)
	s, err := eng.CreateScript(`tick.incr()`)
	require.NoError(t, err)

	counter := &tally{}
	c := s.Callable(data.MapContext{"tick": counter})

	got, err := c.Call(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), got)

	got, err = c.Call(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), got, "second call returns the recorded outcome")
	require.Equal(t, int64(1), counter.Count(), "the interpreter ran exactly once")
}

func TestCallableConcurrentSingleFlight(t *testing.T) {
	eng := newTestEngine(t)
	s, err := eng.CreateScript(`tick.incr()`)
	require.NoError(t, err)

	counter := &tally{}
	c := s.Callable(data.MapContext{"tick": counter})

	const callers = 8
	results := make(chan any, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.Call(context.Background())
			require.NoError(t, err)
			results <- v
		}()
	}
	wg.Wait()
	close(results)

	for v := range results {
		require.Equal(t, int64(1), v, "all callers observe the single execution's value")
	}
	require.Equal(t, int64(1), counter.Count())
}

func TestCallableWithArguments(t *testing.T) {
	eng := newTestEngine(t)
	s, err := eng.CreateScript(`x * 100 + y`, "x", "y")
	require.NoError(t, err)

	c := s.Callable(nil, int64(1), int64(2))
	got, err := c.Call(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(102), got)
}

func TestCallableFromCurriedScript(t *testing.T) {
	eng := newTestEngine(t)
	s, err := eng.CreateScript(`x * 100 + y`, "x", "y")
	require.NoError(t, err)

	c := s.Curry(int64(1)).Callable(nil, int64(2))
	got, err := c.Call(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(102), got)
}

func TestCallableFailurePropagates(t *testing.T) {
	eng := newTestEngine(t)
	s, err := eng.CreateScript(`1 / 0`)
	require.NoError(t, err)

	c := s.Callable(nil)
	_, err = c.Call(context.Background())
	require.ErrorIs(t, err, interp.ErrDivideByZero)

	_, again := c.Call(context.Background())
	require.Equal(t, err, again, "the recorded failure is stable")
}

func TestCallableCancellation(t *testing.T) {
	eng := newTestEngine(t)

	t.Run("cancel before call", func(t *testing.T) {
		s, err := eng.CreateScript(`while (true) 1`)
		require.NoError(t, err)
		c := s.Callable(nil)

		require.True(t, c.IsCancellable())
		require.True(t, c.Cancel())
		require.True(t, c.IsCancelled())

		_, err = c.Call(context.Background())
		require.ErrorIs(t, err, interp.ErrCancelled)
	})

	t.Run("cancel during call", func(t *testing.T) {
		s, err := eng.CreateScript(`var n = 0; while (true) n = n + 1`)
		require.NoError(t, err)
		c := s.Callable(nil)

		done := make(chan error, 1)
		go func() {
			_, err := c.Call(context.Background())
			done <- err
		}()

		time.Sleep(10 * time.Millisecond)
		require.True(t, c.Cancel())
		require.ErrorIs(t, <-done, interp.ErrCancelled)
		require.True(t, c.IsCancelled())
	})

	t.Run("cancel after completion is refused", func(t *testing.T) {
		s, err := eng.CreateScript(`6 * 7`)
		require.NoError(t, err)
		c := s.Callable(nil)

		got, err := c.Call(context.Background())
		require.NoError(t, err)
		require.Equal(t, int64(42), got)

		require.False(t, c.Cancel())
		require.False(t, c.IsCancelled())

		got, err = c.Call(context.Background())
		require.NoError(t, err)
		require.Equal(t, int64(42), got, "the recorded result is unchanged")
	})
}
