package exl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEval(t *testing.T) {
	env := NewContext()
	require.NoError(t, env.Set("greeting", "hello"))

	got, err := Eval(context.Background(), `greeting + ", world"`, env)
	require.NoError(t, err)
	require.Equal(t, "hello, world", got)
}

func TestCompileAndCurry(t *testing.T) {
	s, err := Compile(`x + y`, "x", "y")
	require.NoError(t, err)

	add2 := s.Curry(int64(2))
	got, err := add2.Execute(context.Background(), nil, int64(40))
	require.NoError(t, err)
	require.Equal(t, int64(42), got)
}

func TestEvalParseError(t *testing.T) {
	_, err := Eval(context.Background(), `1 +`, nil)
	require.Error(t, err)
}
