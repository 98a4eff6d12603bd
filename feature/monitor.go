package feature

import (
	"math"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/stat"

	"github.com/rushteam/tabprep/pkg/frame"
)

// ColumnStats 是输出表单列的统计摘要，用于运行结束后的观测。
// 数值统计只对 Float/Int/Bool 列计算，且忽略缺失与非有限值。
type ColumnStats struct {
	Name    string
	Type    series.Type
	Count   int // 非缺失单元格数
	Missing int
	Unique  int

	Mean float64
	Std  float64
	Min  float64
	Max  float64
	P50  float64
	P95  float64
}

// Numeric 表示该列是否带有数值统计。
func (s ColumnStats) Numeric() bool {
	return s.Type != series.String && s.Count > 0 && !math.IsNaN(s.Mean)
}

// Profile 按列顺序计算整张表的统计摘要。
func Profile(df dataframe.DataFrame) []ColumnStats {
	names := df.Names()
	out := make([]ColumnStats, 0, len(names))
	for _, name := range names {
		out = append(out, profileColumn(df.Col(name)))
	}
	return out
}

func profileColumn(col series.Series) ColumnStats {
	st := ColumnStats{
		Name:    col.Name,
		Type:    col.Type(),
		Missing: frame.CountMissing(col),
		Mean:    math.NaN(),
		Std:     math.NaN(),
		Min:     math.NaN(),
		Max:     math.NaN(),
		P50:     math.NaN(),
		P95:     math.NaN(),
	}
	st.Count = col.Len() - st.Missing

	vals, missing := frame.Strings(col)
	seen := make(map[string]struct{})
	for i, v := range vals {
		if !missing[i] {
			seen[v] = struct{}{}
		}
	}
	st.Unique = len(seen)

	if st.Type == series.String {
		return st
	}
	finite := make([]float64, 0, st.Count)
	for _, v := range col.Float() {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return st
	}
	sort.Float64s(finite)
	st.Mean, st.Std = stat.MeanStdDev(finite, nil)
	st.Min = finite[0]
	st.Max = finite[len(finite)-1]
	st.P50 = stat.Quantile(0.5, stat.Empirical, finite, nil)
	st.P95 = stat.Quantile(0.95, stat.Empirical, finite, nil)
	return st
}
