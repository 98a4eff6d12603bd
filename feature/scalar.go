package feature

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/rushteam/tabprep/core"
	"github.com/rushteam/tabprep/pipeline"
	"github.com/rushteam/tabprep/pkg/frame"
)

// 单位换算系数
const (
	MillionScale  = 1e6
	ThousandScale = 1e3

	// MissingSentinel 是面积列中表示缺失的字面量
	MissingSentinel = "missing"
)

// CostSales 把 Store Sales / Store Cost 的首个空白分隔 token 解析为浮点数并乘以 1e6。
// 无法解析时返回 CoercionError。
type CostSales struct {
	Columns []string
	Scale   float64
}

func NewCostSales() *CostSales {
	return &CostSales{
		Columns: []string{core.ColStoreSales, core.ColStoreCost},
		Scale:   MillionScale,
	}
}

func (c *CostSales) Name() string        { return "scalar.cost_sales" }
func (c *CostSales) Kind() pipeline.Kind { return pipeline.KindScalar }

func (c *CostSales) Process(
	_ context.Context,
	_ *core.RunContext,
	df dataframe.DataFrame,
) (dataframe.DataFrame, error) {
	scale := c.Scale
	if scale == 0 {
		scale = MillionScale
	}
	cols := make([]series.Series, 0, len(c.Columns))
	for _, name := range c.Columns {
		col, err := frame.Column(df, name)
		if err != nil {
			return df, err
		}
		vals, missing := frame.Strings(col)
		out := make([]float64, len(vals))
		for i, raw := range vals {
			fields := strings.Fields(raw)
			if missing[i] || len(fields) == 0 {
				out[i] = math.NaN()
				continue
			}
			f, err := strconv.ParseFloat(fields[0], 64)
			if err != nil {
				return df, core.NewCoercionError(name, raw, err)
			}
			out[i] = f * scale
		}
		cols = append(cols, frame.FloatColumn(name, out))
	}
	return frame.Mutate(df, cols...)
}

// Income 从收入区间字符串（如 "150K+"）中取出 K 之前的数值并乘以 1000，
// 统一写入 "Min. Person Yearly Income"。候选源列都不存在时不做处理。
type Income struct {
	Candidates []string
	Scale      float64
}

func NewIncome() *Income {
	return &Income{Candidates: core.IncomeCandidates, Scale: ThousandScale}
}

func (s *Income) Name() string        { return "scalar.income" }
func (s *Income) Kind() pipeline.Kind { return pipeline.KindScalar }

func (s *Income) Process(
	_ context.Context,
	_ *core.RunContext,
	df dataframe.DataFrame,
) (dataframe.DataFrame, error) {
	candidates := s.Candidates
	if len(candidates) == 0 {
		candidates = core.IncomeCandidates
	}
	scale := s.Scale
	if scale == 0 {
		scale = ThousandScale
	}
	src, ok := frame.Lookup(df, candidates...)
	if !ok {
		return df, nil
	}
	vals, missing := frame.Strings(df.Col(src))
	out := make([]float64, len(vals))
	for i, raw := range vals {
		if missing[i] {
			out[i] = math.NaN()
			continue
		}
		f, err := ParseIncome(raw)
		if err != nil {
			return df, core.NewCoercionError(src, raw, err)
		}
		out[i] = f * scale
	}

	df, err := frame.Mutate(df, frame.FloatColumn(core.ColIncome, out))
	if err != nil {
		return df, err
	}
	if src == core.ColIncome {
		return df, nil
	}
	return frame.Drop(df, src)
}

// ParseIncome 返回 "K+" 之前的数值；没有 "K+" 时取第一个 "K" 之前的部分（如 "10K-30K" -> 10）。
func ParseIncome(raw string) (float64, error) {
	head, _, ok := strings.Cut(raw, "K+")
	if !ok {
		head, _, _ = strings.Cut(raw, "K")
	}
	return strconv.ParseFloat(strings.TrimSpace(head), 64)
}

// columnRule 描述单列的类型转换规则。
type columnRule struct {
	name       string
	stripQuote bool
	sentinel   bool // 字面量 "missing" 视为缺失，其它无法解析的值降级为缺失并告警
	optional   bool // 列不存在时跳过
}

// ColumnTypes 把面积与重量列统一转为 float。
//   - Store Area / Grocery Area：去引号，"missing" 视为缺失，其它无法解析的值降级为缺失
//   - Meat Area：去引号，无法解析即 CoercionError
//   - Gross/Net/Package Weight：列存在时转换，空串视为缺失，无法解析即 CoercionError
type ColumnTypes struct {
	rules []columnRule
}

func NewColumnTypes() *ColumnTypes {
	return &ColumnTypes{rules: []columnRule{
		{name: core.ColStoreArea, stripQuote: true, sentinel: true},
		{name: core.ColGroceryArea, stripQuote: true, sentinel: true},
		{name: core.ColMeatArea, stripQuote: true},
		{name: core.ColGrossWeight, optional: true},
		{name: core.ColNetWeight, optional: true},
		{name: core.ColPackageWeight, optional: true},
	}}
}

func (c *ColumnTypes) Name() string        { return "scalar.column_types" }
func (c *ColumnTypes) Kind() pipeline.Kind { return pipeline.KindScalar }

func (c *ColumnTypes) Process(
	_ context.Context,
	rctx *core.RunContext,
	df dataframe.DataFrame,
) (dataframe.DataFrame, error) {
	cols := make([]series.Series, 0, len(c.rules))
	for _, rule := range c.rules {
		if !frame.Has(df, rule.name) {
			if rule.optional {
				continue
			}
			return df, core.NewMissingColumnError(rule.name)
		}
		col := df.Col(rule.name)
		if col.Type() == series.Float {
			continue
		}
		vals, missing := frame.Strings(col)
		out := make([]float64, len(vals))
		for i, raw := range vals {
			v := strings.TrimSpace(raw)
			if rule.stripQuote {
				v = strings.Trim(v, `"`)
			}
			if missing[i] || v == "" || (rule.sentinel && v == MissingSentinel) {
				out[i] = math.NaN()
				continue
			}
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				if !rule.sentinel {
					return df, core.NewCoercionError(rule.name, raw, err)
				}
				rctx.Warn(core.Warning{
					Kind:   core.WarnParseDegradation,
					Stage:  c.Name(),
					Column: rule.name,
					Row:    i,
					Value:  raw,
				})
				f = math.NaN()
			}
			out[i] = f
		}
		cols = append(cols, frame.FloatColumn(rule.name, out))
	}
	return frame.Mutate(df, cols...)
}

// PackageWeight 计算 Package Weight = Gross Weight - Net Weight。
// 默认只填补缺失的单元格（列不存在时整列计算）；Overwrite 为 true 时全部重算。
type PackageWeight struct {
	Overwrite bool
}

func (p *PackageWeight) Name() string        { return "scalar.package_weight" }
func (p *PackageWeight) Kind() pipeline.Kind { return pipeline.KindScalar }

func (p *PackageWeight) Process(
	_ context.Context,
	_ *core.RunContext,
	df dataframe.DataFrame,
) (dataframe.DataFrame, error) {
	gross, err := frame.Column(df, core.ColGrossWeight)
	if err != nil {
		return df, err
	}
	net, err := frame.Column(df, core.ColNetWeight)
	if err != nil {
		return df, err
	}
	g, n := frame.Floats(gross), frame.Floats(net)

	out := make([]float64, len(g))
	var existing []float64
	if !p.Overwrite && frame.Has(df, core.ColPackageWeight) {
		existing = frame.Floats(df.Col(core.ColPackageWeight))
	}
	for i := range g {
		if existing != nil && !math.IsNaN(existing[i]) {
			out[i] = existing[i]
			continue
		}
		out[i] = g[i] - n[i]
	}
	return frame.Mutate(df, frame.FloatColumn(core.ColPackageWeight, out))
}
