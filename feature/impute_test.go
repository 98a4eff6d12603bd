package feature

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/tabprep/core"
)

func TestParseImputeStrategy(t *testing.T) {
	s, err := ParseImputeStrategy("")
	require.NoError(t, err)
	assert.Equal(t, ImputeMean, s)

	s, err = ParseImputeStrategy("iterative")
	require.NoError(t, err)
	assert.Equal(t, ImputeIterative, s)

	_, err = ParseImputeStrategy("knn")
	assert.True(t, core.IsInvalidInput(err))
}

func TestFillNulls_Mean(t *testing.T) {
	df := table(
		strs(core.ColID, "0", "1", "2", "3"),
		floats("Meat Area", 1, 3, nan, 5),
		ints(core.ColChildren, 2, nil, 2, 1),
		bools("Coffee Bar", true, false, nil, false),
		strs(core.ColGender, "M", nil, "F", "F"),
	)
	out, rctx := run(t, NewFillNulls(ImputeMean), df)

	assert.Equal(t, []float64{1, 3, 3, 5}, out.Col("Meat Area").Float())

	children, err := out.Col(core.ColChildren).Int()
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2, 2, 1}, children)

	coffee, err := out.Col("Coffee Bar").Bool()
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, false, false}, coffee)

	assert.Equal(t, []interface{}{"M", "F", "F", "F"}, colStrings(t, out, core.ColGender))
	assert.Empty(t, rctx.Warnings())
}

func TestFillNulls_CostSkipsStrings(t *testing.T) {
	df := table(
		strs(core.ColID, "0", "1"),
		floats(core.ColCost, 1, nan),
		strs(core.ColGender, "M", nil),
	)
	out, _ := run(t, NewFillNulls(ImputeMean), df)

	assert.Equal(t, []float64{1, 1}, out.Col(core.ColCost).Float())
	assert.Equal(t, []interface{}{"M", nil}, colStrings(t, out, core.ColGender))
}

func TestFillNulls_AllMissingColumn(t *testing.T) {
	df := table(
		strs(core.ColID, "0", "1"),
		floats("Empty", nan, nan),
	)
	out, rctx := run(t, NewFillNulls(ImputeMean), df)

	for _, v := range out.Col("Empty").Float() {
		assert.True(t, math.IsNaN(v))
	}
	warnings := rctx.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, core.WarnImputeSkipped, warnings[0].Kind)
	assert.Equal(t, "Empty", warnings[0].Column)
	assert.Equal(t, -1, warnings[0].Row)
}

func TestFillNulls_Iterative(t *testing.T) {
	df := table(
		strs(core.ColID, "0", "1", "2", "3", "4", "5"),
		floats("x", 1, 2, 3, 4, 5, 6),
		floats("y", 2, 4, 6, 8, nan, 12),
		floats("z", 3, 3, 3, 3, 3, 3),
	)
	out, _ := run(t, NewFillNulls(ImputeIterative), df)

	y := out.Col("y").Float()
	// y = 2x，回归插补应接近 10，而均值插补会得到 6.4
	assert.InDelta(t, 10, y[4], 0.05)
	assert.Equal(t, []float64{2, 4, 6, 8}, y[:4])
	assert.Equal(t, 12.0, y[5])
}

func TestIterativeImputer_SingleColumnFallsBackToMean(t *testing.T) {
	im := NewIterativeImputer()
	out, iter := im.Impute([][]float64{{1, nan, 3}})
	assert.Equal(t, 0, iter)
	assert.Equal(t, []float64{1, 2, 3}, out[0])
}
