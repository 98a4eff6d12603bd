// Package frame 提供基于 gota DataFrame 的列查找、取值与构建工具，
// 把 Stage 中反复出现的“按候选名找列 / 取字符串或浮点值 / 带缺失值构建新列”收敛到一处。
package frame

import (
	"fmt"
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/rushteam/tabprep/core"
)

// Lookup 按优先级返回第一个存在于 df 中的候选列名。
func Lookup(df dataframe.DataFrame, candidates ...string) (string, bool) {
	names := df.Names()
	for _, c := range candidates {
		for _, n := range names {
			if n == c {
				return c, true
			}
		}
	}
	return "", false
}

// Has 判断列是否存在。
func Has(df dataframe.DataFrame, name string) bool {
	_, ok := Lookup(df, name)
	return ok
}

// Require 与 Lookup 相同，但全部缺失时返回 MissingColumnError。
func Require(df dataframe.DataFrame, candidates ...string) (string, error) {
	if name, ok := Lookup(df, candidates...); ok {
		return name, nil
	}
	return "", core.NewMissingColumnError(candidates...)
}

// Column 取列，列不存在时返回 MissingColumnError。
func Column(df dataframe.DataFrame, name string) (series.Series, error) {
	if !Has(df, name) {
		return series.Series{}, core.NewMissingColumnError(name)
	}
	s := df.Col(name)
	if s.Err != nil {
		return series.Series{}, s.Err
	}
	return s, nil
}

// Strings 返回列的字符串值与缺失标记。缺失单元格的值为 ""。
func Strings(s series.Series) ([]string, []bool) {
	n := s.Len()
	vals := make([]string, n)
	missing := make([]bool, n)
	for i := 0; i < n; i++ {
		e := s.Elem(i)
		if e.IsNA() {
			missing[i] = true
			continue
		}
		vals[i] = e.String()
	}
	return vals, missing
}

// Floats 返回列的浮点值，缺失或不可转换的单元格为 NaN。
func Floats(s series.Series) []float64 {
	return s.Float()
}

// StringColumn 构建字符串列，missing[i] 为 true 的位置写入缺失值。
func StringColumn(name string, vals []string, missing []bool) series.Series {
	raw := make([]interface{}, len(vals))
	for i, v := range vals {
		if missing != nil && missing[i] {
			continue
		}
		raw[i] = v
	}
	return series.New(raw, series.String, name)
}

// FloatColumn 构建浮点列，NaN 即缺失。
func FloatColumn(name string, vals []float64) series.Series {
	raw := make([]interface{}, len(vals))
	for i, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		raw[i] = v
	}
	return series.New(raw, series.Float, name)
}

// IntColumn 构建整数列，missing[i] 为 true 的位置写入缺失值。
func IntColumn(name string, vals []int, missing []bool) series.Series {
	raw := make([]interface{}, len(vals))
	for i, v := range vals {
		if missing != nil && missing[i] {
			continue
		}
		raw[i] = v
	}
	return series.New(raw, series.Int, name)
}

// BoolColumn 构建布尔列，missing[i] 为 true 的位置写入缺失值。
func BoolColumn(name string, vals []bool, missing []bool) series.Series {
	raw := make([]interface{}, len(vals))
	for i, v := range vals {
		if missing != nil && missing[i] {
			continue
		}
		raw[i] = v
	}
	return series.New(raw, series.Bool, name)
}

// Mutate 依次写入（新增或替换）多列，并把 gota 的内嵌错误转成返回值。
func Mutate(df dataframe.DataFrame, cols ...series.Series) (dataframe.DataFrame, error) {
	for _, s := range cols {
		df = df.Mutate(s)
		if df.Err != nil {
			return df, fmt.Errorf("mutate %q: %w", s.Name, df.Err)
		}
	}
	return df, nil
}

// Drop 删除存在的列，不存在的列名被忽略。
func Drop(df dataframe.DataFrame, names ...string) (dataframe.DataFrame, error) {
	present := make([]string, 0, len(names))
	for _, n := range names {
		if Has(df, n) {
			present = append(present, n)
		}
	}
	if len(present) == 0 {
		return df, nil
	}
	out := df.Drop(present)
	if out.Err != nil {
		return df, fmt.Errorf("drop %v: %w", present, out.Err)
	}
	return out, nil
}

// MoveFirst 把指定列移动到第一列，其余列保持原有顺序。
func MoveFirst(df dataframe.DataFrame, name string) (dataframe.DataFrame, error) {
	names := df.Names()
	if len(names) == 0 || names[0] == name || !Has(df, name) {
		return df, nil
	}
	order := make([]string, 0, len(names))
	order = append(order, name)
	for _, n := range names {
		if n != name {
			order = append(order, n)
		}
	}
	out := df.Select(order)
	if out.Err != nil {
		return df, fmt.Errorf("reorder: %w", out.Err)
	}
	return out, nil
}

// Missing 返回列中每个单元格的缺失标记。
func Missing(s series.Series) []bool {
	return s.IsNaN()
}

// CountMissing 统计列中缺失单元格数量。
func CountMissing(s series.Series) int {
	n := 0
	for _, m := range s.IsNaN() {
		if m {
			n++
		}
	}
	return n
}
