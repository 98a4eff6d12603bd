package feature

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/rushteam/tabprep/pkg/frame"
)

// ValueCounts 统计列中每个非缺失值（按字符串形式）出现的次数。
func ValueCounts(col series.Series) map[string]int {
	missing := col.IsNaN()
	counts := make(map[string]int)
	for i := 0; i < col.Len(); i++ {
		if missing[i] {
			continue
		}
		counts[col.Elem(i).String()]++
	}
	return counts
}

// JoinValueCounts 把 key 列的频次以 out 为列名回填到原表，新列追加在末尾；
// key 缺失的行频次为缺失。其余列原样保留。
func JoinValueCounts(df dataframe.DataFrame, key, out string) (dataframe.DataFrame, error) {
	col, err := frame.Column(df, key)
	if err != nil {
		return df, err
	}
	counts := ValueCounts(col)

	missing := col.IsNaN()
	vals := make([]int, col.Len())
	for i := range vals {
		if !missing[i] {
			vals[i] = counts[col.Elem(i).String()]
		}
	}

	if key != out {
		if df, err = frame.Drop(df, out); err != nil {
			return df, err
		}
	}
	return frame.Mutate(df, frame.IntColumn(out, vals, missing))
}
