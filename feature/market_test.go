package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/tabprep/core"
)

func TestMarketTokens(t *testing.T) {
	vals := []string{
		"['Salad Bar', 'Florist']",
		"['Bar']",
		"[]",
		"",
	}
	missing := []bool{false, false, false, true}
	assert.Equal(t, []string{"Bar", "Florist", "Salad Bar"}, MarketTokens(vals, missing))
}

func TestMarketFeatures_Process(t *testing.T) {
	df := table(
		strs(core.ColID, "0", "1", "2"),
		strs(core.ColMarketFeatures, "['Salad Bar', 'Florist']", "['Bar']", nil),
	)
	out, _ := run(t, NewMarketFeatures(), df)

	assert.Equal(t, []string{core.ColID, "Bar", "Florist", "Salad Bar"}, out.Names())

	bar, err := out.Col("Bar").Int()
	require.NoError(t, err)
	// "Salad Bar" 包含子串 "Bar"，因此第一行也被标记
	assert.Equal(t, []int{1, 1, 0}, bar)

	florist, err := out.Col("Florist").Int()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0, 0}, florist)

	// 源列已删除，再次执行不改变任何内容
	again, _ := run(t, NewMarketFeatures(), out)
	assert.Equal(t, out.Names(), again.Names())
}
