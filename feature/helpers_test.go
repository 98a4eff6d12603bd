package feature

import (
	"context"
	"math"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/tabprep/core"
	"github.com/rushteam/tabprep/pipeline"
)

// strs 构建字符串列，nil 元素为缺失值。
func strs(name string, vals ...interface{}) series.Series {
	return series.New(vals, series.String, name)
}

func floats(name string, vals ...float64) series.Series {
	raw := make([]interface{}, len(vals))
	for i, v := range vals {
		if !math.IsNaN(v) {
			raw[i] = v
		}
	}
	return series.New(raw, series.Float, name)
}

func ints(name string, vals ...interface{}) series.Series {
	return series.New(vals, series.Int, name)
}

func bools(name string, vals ...interface{}) series.Series {
	return series.New(vals, series.Bool, name)
}

func table(cols ...series.Series) dataframe.DataFrame {
	return dataframe.New(cols...)
}

// run 执行单个 Stage 并断言没有错误。
func run(t *testing.T, s pipeline.Stage, df dataframe.DataFrame) (dataframe.DataFrame, *core.RunContext) {
	t.Helper()
	rctx := core.NewRunContext("test")
	out, err := s.Process(context.Background(), rctx, df)
	require.NoError(t, err)
	require.NoError(t, out.Err)
	return out, rctx
}

func colStrings(t *testing.T, df dataframe.DataFrame, name string) []interface{} {
	t.Helper()
	col := df.Col(name)
	require.NoError(t, col.Err)
	out := make([]interface{}, col.Len())
	for i := 0; i < col.Len(); i++ {
		e := col.Elem(i)
		if e.IsNA() {
			continue
		}
		out[i] = e.String()
	}
	return out
}

var nan = math.NaN()
