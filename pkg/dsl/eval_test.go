package dsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEval_Bool(t *testing.T) {
	e, err := Compile(`row["Marriage"] == "Married" && row["Children"] >= 2.0`)
	require.NoError(t, err)

	ok, err := e.Bool(map[string]any{"Marriage": "Married", "Children": 3.0})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = e.Bool(map[string]any{"Marriage": "Single", "Children": 3.0})
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = e.Bool(map[string]any{"Marriage": "Married"})
	assert.Error(t, err)
}

func TestEval_Float(t *testing.T) {
	e, err := Compile(`row["a"] != null ? dyn(row["a"] * 2.0) : null`)
	require.NoError(t, err)

	v, ok, err := e.Float(map[string]any{"a": 1.5})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3.0, v)

	_, ok, err = e.Float(map[string]any{"a": nil})
	require.NoError(t, err)
	assert.False(t, ok)

	s, err := Compile(`"text"`)
	require.NoError(t, err)
	_, _, err = s.Float(map[string]any{})
	assert.Error(t, err)
}

func TestEval_NullOperand(t *testing.T) {
	e, err := Compile(`row["a"] > 0.0`)
	require.NoError(t, err)
	_, err = e.Bool(map[string]any{"a": nil})
	assert.Error(t, err)
}

func TestCompile_Errors(t *testing.T) {
	_, err := Compile("")
	assert.Error(t, err)
	_, err = Compile(`row["a"] +`)
	assert.Error(t, err)
}
