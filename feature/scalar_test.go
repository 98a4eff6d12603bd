package feature

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/tabprep/core"
)

func TestCostSales_Process(t *testing.T) {
	df := table(
		strs(core.ColID, "0", "1", "2"),
		strs(core.ColStoreSales, "7.36 millions", "12 millions", nil),
		strs(core.ColStoreCost, "2.9 millions", "4.5", "1 millions"),
	)
	out, _ := run(t, NewCostSales(), df)

	sales := out.Col(core.ColStoreSales).Float()
	assert.InDelta(t, 7.36e6, sales[0], 1e-6)
	assert.InDelta(t, 12e6, sales[1], 1e-6)
	assert.True(t, math.IsNaN(sales[2]))

	cost := out.Col(core.ColStoreCost).Float()
	assert.InDelta(t, 2.9e6, cost[0], 1e-6)
	assert.InDelta(t, 4.5e6, cost[1], 1e-6)
}

func TestCostSales_CoercionError(t *testing.T) {
	df := table(
		strs(core.ColID, "0"),
		strs(core.ColStoreSales, "lots millions"),
		strs(core.ColStoreCost, "1 millions"),
	)
	_, err := NewCostSales().Process(context.Background(), core.NewRunContext("test"), df)
	require.Error(t, err)
	assert.True(t, core.IsCoercion(err))
}

func TestParseIncome(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"150K+", 150},
		{"10K+", 10},
		{"10K-30K", 10},
		{" 50 K+", 50},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseIncome(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseIncome("unknown")
	assert.Error(t, err)
}

func TestIncome_Process(t *testing.T) {
	t.Run("alternate source renamed", func(t *testing.T) {
		df := table(
			strs(core.ColID, "0", "1"),
			strs("Yearly Income", "150K+", nil),
		)
		out, _ := run(t, NewIncome(), df)
		assert.False(t, contains(out.Names(), "Yearly Income"))
		income := out.Col(core.ColIncome).Float()
		assert.Equal(t, 150000.0, income[0])
		assert.True(t, math.IsNaN(income[1]))
	})

	t.Run("no source is a no-op", func(t *testing.T) {
		df := table(strs(core.ColID, "0"))
		out, _ := run(t, NewIncome(), df)
		assert.Equal(t, []string{core.ColID}, out.Names())
	})

	t.Run("non numeric", func(t *testing.T) {
		df := table(strs(core.ColID, "0"), strs("Min. Yearly Income", "abcK+"))
		_, err := NewIncome().Process(context.Background(), core.NewRunContext("test"), df)
		assert.True(t, core.IsCoercion(err))
	})
}

func TestColumnTypes_Process(t *testing.T) {
	df := table(
		strs(core.ColID, "0", "1", "2"),
		strs(core.ColStoreArea, "100.5", "missing", "n/a"),
		strs(core.ColGroceryArea, `"20"`, `"missing"`, "30"),
		strs(core.ColMeatArea, `"5"`, "6", nil),
		strs(core.ColGrossWeight, "10.5", "", "3"),
	)
	out, rctx := run(t, NewColumnTypes(), df)

	store := out.Col(core.ColStoreArea).Float()
	assert.Equal(t, 100.5, store[0])
	assert.True(t, math.IsNaN(store[1]))
	assert.True(t, math.IsNaN(store[2]))
	// "n/a" 不是哨兵值，降级为缺失并告警
	assert.Equal(t, 1, rctx.WarningCount(core.WarnParseDegradation))

	grocery := out.Col(core.ColGroceryArea).Float()
	assert.Equal(t, 20.0, grocery[0])
	assert.True(t, math.IsNaN(grocery[1]))
	assert.Equal(t, 30.0, grocery[2])

	meat := out.Col(core.ColMeatArea).Float()
	assert.Equal(t, []float64{5, 6}, meat[:2])
	assert.True(t, math.IsNaN(meat[2]))

	gross := out.Col(core.ColGrossWeight).Float()
	assert.Equal(t, 10.5, gross[0])
	assert.True(t, math.IsNaN(gross[1]))
}

func TestColumnTypes_StrictMeatArea(t *testing.T) {
	df := table(
		strs(core.ColID, "0"),
		strs(core.ColStoreArea, "1"),
		strs(core.ColGroceryArea, "1"),
		strs(core.ColMeatArea, "missing"),
	)
	_, err := NewColumnTypes().Process(context.Background(), core.NewRunContext("test"), df)
	require.Error(t, err)
	assert.True(t, core.IsCoercion(err))
}

func TestColumnTypes_MissingArea(t *testing.T) {
	df := table(strs(core.ColID, "0"), strs(core.ColStoreArea, "1"))
	_, err := NewColumnTypes().Process(context.Background(), core.NewRunContext("test"), df)
	assert.True(t, core.IsMissingColumn(err))
}

func TestPackageWeight_Process(t *testing.T) {
	t.Run("fills only missing", func(t *testing.T) {
		df := table(
			strs(core.ColID, "0", "1"),
			floats(core.ColGrossWeight, 10.5, 8),
			floats(core.ColNetWeight, 9, 6.5),
			floats(core.ColPackageWeight, 2, nan),
		)
		out, _ := run(t, &PackageWeight{}, df)
		assert.Equal(t, []float64{2, 1.5}, out.Col(core.ColPackageWeight).Float())
	})

	t.Run("overwrite", func(t *testing.T) {
		df := table(
			strs(core.ColID, "0", "1"),
			floats(core.ColGrossWeight, 10.5, 8),
			floats(core.ColNetWeight, 9, 6.5),
			floats(core.ColPackageWeight, 2, nan),
		)
		out, _ := run(t, &PackageWeight{Overwrite: true}, df)
		assert.Equal(t, []float64{1.5, 1.5}, out.Col(core.ColPackageWeight).Float())
	})

	t.Run("absent column computed", func(t *testing.T) {
		df := table(
			strs(core.ColID, "0"),
			floats(core.ColGrossWeight, 10.5),
			floats(core.ColNetWeight, 9),
		)
		out, _ := run(t, &PackageWeight{}, df)
		assert.Equal(t, []float64{1.5}, out.Col(core.ColPackageWeight).Float())
	})
}
