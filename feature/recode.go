package feature

import (
	"context"
	"math"

	"github.com/go-gota/gota/dataframe"

	"github.com/rushteam/tabprep/core"
	"github.com/rushteam/tabprep/pipeline"
	"github.com/rushteam/tabprep/pkg/frame"
)

// 回收标记取值
const (
	RecyclableYes = "yes"
	RecyclableNo  = "no"
)

// DefaultRecyclableMapping 把原始文本映射为 yes/no。
var DefaultRecyclableMapping = map[string]string{
	"recyclable":     RecyclableYes,
	"non recyclable": RecyclableNo,
}

// DefaultChildrenMapping 把子女数量的英文单词映射为整数。
var DefaultChildrenMapping = map[string]int{
	"no":    0,
	"one":   1,
	"two":   2,
	"three": 3,
	"four":  4,
	"five":  5,
}

// Recyclable 把 "Is Recyclable?" 的原始文本重编码为 yes/no，其它值置为缺失。
type Recyclable struct {
	Mapping map[string]string
}

func NewRecyclable() *Recyclable {
	return &Recyclable{Mapping: DefaultRecyclableMapping}
}

func (r *Recyclable) Name() string        { return "encode.recyclable" }
func (r *Recyclable) Kind() pipeline.Kind { return pipeline.KindEncode }

func (r *Recyclable) Process(
	_ context.Context,
	_ *core.RunContext,
	df dataframe.DataFrame,
) (dataframe.DataFrame, error) {
	col, err := frame.Column(df, core.ColIsRecyclable)
	if err != nil {
		return df, err
	}
	mapping := r.Mapping
	if mapping == nil {
		mapping = DefaultRecyclableMapping
	}
	vals, missing := frame.Strings(col)
	out := make([]string, len(vals))
	outMissing := make([]bool, len(vals))
	for i, v := range vals {
		mapped, ok := mapping[v]
		if missing[i] || !ok {
			outMissing[i] = true
			continue
		}
		out[i] = mapped
	}
	return frame.Mutate(df, frame.StringColumn(core.ColIsRecyclable, out, outMissing))
}

// EncodeColumns 完成最终的类别编码：
//   - "Is Recyclable?"：yes -> true，no -> false，其余（含缺失）-> true
//   - "Children"：英文单词 -> 0..5，无法映射或缺失的用众数填充（并列取最小值），结果为 int
type EncodeColumns struct {
	Children map[string]int
}

func NewEncodeColumns() *EncodeColumns {
	return &EncodeColumns{Children: DefaultChildrenMapping}
}

func (e *EncodeColumns) Name() string        { return "encode.columns" }
func (e *EncodeColumns) Kind() pipeline.Kind { return pipeline.KindEncode }

func (e *EncodeColumns) Process(
	_ context.Context,
	_ *core.RunContext,
	df dataframe.DataFrame,
) (dataframe.DataFrame, error) {
	recyclable, err := frame.Column(df, core.ColIsRecyclable)
	if err != nil {
		return df, err
	}
	children, err := frame.Column(df, core.ColChildren)
	if err != nil {
		return df, err
	}

	vals, missing := frame.Strings(recyclable)
	flags := make([]bool, len(vals))
	for i, v := range vals {
		// 与 pandas astype(bool) 一致：缺失值视为 true
		flags[i] = missing[i] || (v != RecyclableNo && v != "false")
	}

	mapping := e.Children
	if mapping == nil {
		mapping = DefaultChildrenMapping
	}
	words, wordMissing := frame.Strings(children)
	mapped := mapChildren(mapping, words, wordMissing)
	mode, ok := frame.ModeFloat(mapped)
	if !ok {
		return df, core.NewInvalidInputError(core.ColChildren, "no value can be mapped to a count")
	}
	counts := make([]int, len(mapped))
	for i, v := range mapped {
		if math.IsNaN(v) {
			v = mode
		}
		counts[i] = int(v)
	}

	return frame.Mutate(df,
		frame.BoolColumn(core.ColIsRecyclable, flags, nil),
		frame.IntColumn(core.ColChildren, counts, nil),
	)
}

// mapChildren 按映射表转换，返回 NaN 表示无法映射。
func mapChildren(mapping map[string]int, vals []string, missing []bool) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		n, ok := mapping[v]
		if missing[i] || !ok {
			out[i] = math.NaN()
			continue
		}
		out[i] = float64(n)
	}
	return out
}
