package frame

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/tabprep/core"
)

func sample() dataframe.DataFrame {
	return dataframe.New(
		series.New([]string{"a", "b", "c"}, series.String, "name"),
		series.New([]interface{}{1.5, nil, 3.0}, series.Float, "value"),
		series.New([]int{1, 2, 3}, series.Int, "id"),
	)
}

func TestLookup(t *testing.T) {
	df := sample()
	name, ok := Lookup(df, "missing", "value", "name")
	assert.True(t, ok)
	assert.Equal(t, "value", name)

	_, ok = Lookup(df, "missing")
	assert.False(t, ok)

	_, err := Require(df, "x", "y")
	require.Error(t, err)
	assert.True(t, core.IsMissingColumn(err))
	assert.Contains(t, err.Error(), `"x"`)
}

func TestStringsAndBuilders(t *testing.T) {
	vals, missing := Strings(sample().Col("value"))
	assert.Equal(t, []bool{false, true, false}, missing)
	assert.Equal(t, "", vals[1])

	s := StringColumn("s", []string{"x", "y"}, []bool{false, true})
	assert.Equal(t, []bool{false, true}, s.IsNaN())

	f := FloatColumn("f", []float64{1, math.NaN()})
	assert.Equal(t, 1, CountMissing(f))

	i := IntColumn("i", []int{1, 0}, []bool{false, true})
	assert.Equal(t, series.Int, i.Type())
	assert.Equal(t, 1, CountMissing(i))

	b := BoolColumn("b", []bool{true, false}, nil)
	assert.Equal(t, 0, CountMissing(b))
}

func TestMutateDropMoveFirst(t *testing.T) {
	df, err := Mutate(sample(), IntColumn("extra", []int{1, 2, 3}, nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "value", "id", "extra"}, df.Names())

	_, err = Mutate(df, IntColumn("short", []int{1}, nil))
	assert.Error(t, err)

	df, err = Drop(df, "extra", "not-there")
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "value", "id"}, df.Names())

	df, err = MoveFirst(df, "id")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "value"}, df.Names())
}

func TestModes(t *testing.T) {
	m, ok := ModeString([]string{"b", "a", "b", "a", ""}, []bool{false, false, false, false, true})
	require.True(t, ok)
	assert.Equal(t, "a", m)

	_, ok = ModeString([]string{""}, []bool{true})
	assert.False(t, ok)

	f, ok := ModeFloat([]float64{3, 1, 3, 1, math.NaN(), 2})
	require.True(t, ok)
	assert.Equal(t, 1.0, f)

	_, ok = ModeFloat([]float64{math.NaN()})
	assert.False(t, ok)
}

func TestReadCSV(t *testing.T) {
	df, err := ReadCSV(strings.NewReader(",Store Area,Gender\n0,missing,M\n1,12,NA\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"X0", "Store Area", "Gender"}, df.Names())
	assert.Equal(t, []bool{false, true}, df.Col("Gender").IsNaN())
}

func TestWriteJSON_NonFinite(t *testing.T) {
	df := dataframe.New(
		series.New([]int{1, 2}, series.Int, "id"),
		series.New([]float64{math.Inf(1), 2}, series.Float, "eff"),
	)
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, df))

	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	assert.Nil(t, rows[0]["eff"])
	assert.Equal(t, 2.0, rows[1]["eff"])
}
