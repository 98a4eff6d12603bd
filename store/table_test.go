package store

import (
	"context"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/tabprep/core"
)

func TestSaveTable(t *testing.T) {
	df := dataframe.New(
		series.New([]int{7, 8}, series.Int, core.ColID),
		series.New([]interface{}{10000.0, nil}, series.Float, core.ColFamilyExpenses),
		series.New([]string{"Low", "High"}, series.String, core.ColIncomeLevel),
		series.New([]bool{true, false}, series.Bool, core.ColIsRecyclable),
	)
	s := NewMemoryStore()
	defer s.Close()

	n, err := SaveTable(context.Background(), s, DefaultKeyPrefix, df)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.ElementsMatch(t, []string{"tabprep:row:7", "tabprep:row:8"}, s.Keys())

	row, err := s.HGetAll(context.Background(), "tabprep:row:7")
	require.NoError(t, err)
	assert.Equal(t, "10000", string(row[core.ColFamilyExpenses]))
	assert.Equal(t, "Low", string(row[core.ColIncomeLevel]))
	assert.Equal(t, "true", string(row[core.ColIsRecyclable]))

	// 缺失单元格不写入
	row, err = s.HGetAll(context.Background(), "tabprep:row:8")
	require.NoError(t, err)
	_, ok := row[core.ColFamilyExpenses]
	assert.False(t, ok)
}

func TestSaveTable_ReplacesRows(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	first := dataframe.New(
		series.New([]string{"7"}, series.String, core.ColID),
		series.New([]string{"Low"}, series.String, core.ColIncomeLevel),
		series.New([]string{"High"}, series.String, core.ColPriceTier),
	)
	_, err := SaveTable(ctx, s, DefaultKeyPrefix, first)
	require.NoError(t, err)

	second := dataframe.New(
		series.New([]string{"7"}, series.String, core.ColID),
		series.New([]interface{}{nil}, series.String, core.ColIncomeLevel),
		series.New([]string{"Low"}, series.String, core.ColPriceTier),
	)
	_, err = SaveTable(ctx, s, DefaultKeyPrefix, second, 60)
	require.NoError(t, err)

	row, err := s.HGetAll(ctx, "tabprep:row:7")
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{
		core.ColID:        []byte("7"),
		core.ColPriceTier: []byte("Low"),
	}, row)
	require.NotNil(t, s.hashes["tabprep:row:7"].ttl)
}

func TestSaveTable_RequiresID(t *testing.T) {
	df := dataframe.New(series.New([]string{"a"}, series.String, "x"))
	s := NewMemoryStore()
	defer s.Close()

	_, err := SaveTable(context.Background(), s, "", df)
	require.Error(t, err)
	assert.True(t, core.IsMissingColumn(err))
}
