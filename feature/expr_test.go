package feature

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/tabprep/core"
)

func TestFilterExpr_Process(t *testing.T) {
	f, err := NewFilterExpr(`row["Children"] >= 2.0 && row["Marriage"] == "Married"`)
	require.NoError(t, err)

	df := table(
		strs(core.ColID, "0", "1", "2"),
		ints(core.ColChildren, 2, 3, 0),
		strs(core.ColMarriage, "Married", "Single", "Married"),
	)
	out, _ := run(t, f, df)
	assert.Equal(t, []interface{}{"0"}, colStrings(t, out, core.ColID))
}

func TestDeriveExpr_Process(t *testing.T) {
	d, err := NewDeriveExpr("Tare", `row["Gross Weight"] != null ? dyn(row["Gross Weight"] - row["Net Weight"]) : null`)
	require.NoError(t, err)

	df := table(
		strs(core.ColID, "0", "1"),
		floats(core.ColGrossWeight, 10.5, nan),
		floats(core.ColNetWeight, 9, 1),
	)
	out, _ := run(t, d, df)
	tare := out.Col("Tare").Float()
	assert.Equal(t, 1.5, tare[0])
	assert.True(t, math.IsNaN(tare[1]))
}

func TestExpr_CompileErrors(t *testing.T) {
	_, err := NewFilterExpr("")
	assert.Error(t, err)
	_, err = NewFilterExpr(`row["a"] >`)
	assert.Error(t, err)
	_, err = NewDeriveExpr("", `1.0`)
	assert.Error(t, err)
}

func TestFilterExpr_NullOperand(t *testing.T) {
	f, err := NewFilterExpr(`row["Store Efficiency"] > 0.0`)
	require.NoError(t, err)

	df := table(
		strs(core.ColID, "0", "1", "2"),
		floats(core.ColStoreEfficiency, 1.5, nan, -2),
	)
	out, _ := run(t, f, df)
	assert.Equal(t, []interface{}{"0"}, colStrings(t, out, core.ColID))
}

func TestDeriveExpr_NullOperand(t *testing.T) {
	d, err := NewDeriveExpr("Tare", `row["Gross Weight"] - row["Net Weight"]`)
	require.NoError(t, err)

	df := table(
		strs(core.ColID, "0", "1"),
		floats(core.ColGrossWeight, 10.5, nan),
		floats(core.ColNetWeight, 9, 1),
	)
	out, _ := run(t, d, df)
	tare := out.Col("Tare").Float()
	assert.Equal(t, 1.5, tare[0])
	assert.True(t, math.IsNaN(tare[1]))
}

func TestFilterExpr_UnknownColumnFails(t *testing.T) {
	f, err := NewFilterExpr(`row["Not There"] > 0.0`)
	require.NoError(t, err)

	df := table(strs(core.ColID, "0"), floats(core.ColStoreEfficiency, 1))
	_, err = f.Process(context.Background(), core.NewRunContext("test"), df)
	assert.Error(t, err)
}
