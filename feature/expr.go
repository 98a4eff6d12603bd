package feature

import (
	"context"
	"fmt"
	"math"

	"github.com/go-gota/gota/dataframe"

	"github.com/rushteam/tabprep/core"
	"github.com/rushteam/tabprep/pipeline"
	"github.com/rushteam/tabprep/pkg/dsl"
	"github.com/rushteam/tabprep/pkg/frame"
)

// FilterExpr 按 CEL 布尔表达式过滤行，只保留结果为 true 的行。
// 含缺失单元格的行求值出错（例如 null 参与比较）时视为 false，该行被过滤；
// 没有缺失单元格的行求值出错则中止运行。
//
// 示例：`row["Store Sales"] > 0.0 && row["Country ISO2"] == "US"`
type FilterExpr struct {
	eval *dsl.Eval
}

func NewFilterExpr(expr string) (*FilterExpr, error) {
	e, err := dsl.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("filter.expr: %w", err)
	}
	return &FilterExpr{eval: e}, nil
}

func (f *FilterExpr) Name() string        { return "filter.expr" }
func (f *FilterExpr) Kind() pipeline.Kind { return pipeline.KindFilter }

func (f *FilterExpr) Process(
	ctx context.Context,
	_ *core.RunContext,
	df dataframe.DataFrame,
) (dataframe.DataFrame, error) {
	rows := Rows(df)
	keep := make([]int, 0, len(rows))
	for i, row := range rows {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return df, err
			}
		}
		ok, err := f.eval.Bool(row)
		if err != nil {
			if !hasNull(row) {
				return df, fmt.Errorf("row %d: %q: %w", i, f.eval.Expr(), err)
			}
			ok = false
		}
		if ok {
			keep = append(keep, i)
		}
	}
	if len(keep) == len(rows) {
		return df, nil
	}
	out := df.Subset(keep)
	if out.Err != nil {
		return df, fmt.Errorf("subset: %w", out.Err)
	}
	return out, nil
}

// DeriveExpr 用 CEL 数值表达式新增（或替换）一个 float 列；结果为 null 时写入缺失值。
// 含缺失单元格的行求值出错时同样写入缺失值。
//
// 示例：`row["Gross Weight"] - row["Net Weight"]`
type DeriveExpr struct {
	Column string
	eval   *dsl.Eval
}

func NewDeriveExpr(column, expr string) (*DeriveExpr, error) {
	if column == "" {
		return nil, fmt.Errorf("derive.expr: column is required")
	}
	e, err := dsl.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("derive.expr: %w", err)
	}
	return &DeriveExpr{Column: column, eval: e}, nil
}

func (d *DeriveExpr) Name() string        { return "derive.expr" }
func (d *DeriveExpr) Kind() pipeline.Kind { return pipeline.KindDerive }

func (d *DeriveExpr) Process(
	ctx context.Context,
	_ *core.RunContext,
	df dataframe.DataFrame,
) (dataframe.DataFrame, error) {
	rows := Rows(df)
	out := make([]float64, len(rows))
	for i, row := range rows {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return df, err
			}
		}
		v, ok, err := d.eval.Float(row)
		if err != nil {
			if !hasNull(row) {
				return df, fmt.Errorf("row %d: %q: %w", i, d.eval.Expr(), err)
			}
			ok = false
		}
		if !ok {
			v = math.NaN()
		}
		out[i] = v
	}
	return frame.Mutate(df, frame.FloatColumn(d.Column, out))
}

// Rows 把表转为 CEL 行数据：数值统一为 float64，缺失值为 nil。
func Rows(df dataframe.DataFrame) []map[string]any {
	rows := df.Maps()
	for _, row := range rows {
		for k, v := range row {
			switch val := v.(type) {
			case int:
				row[k] = float64(val)
			case float64:
				if math.IsNaN(val) {
					row[k] = nil
				}
			}
		}
	}
	return rows
}

func hasNull(row map[string]any) bool {
	for _, v := range row {
		if v == nil {
			return true
		}
	}
	return false
}
