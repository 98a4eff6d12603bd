package feature

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/rushteam/tabprep/core"
	"github.com/rushteam/tabprep/pipeline"
	"github.com/rushteam/tabprep/pkg/frame"
)

// ImputeStrategy 是浮点列的插补策略。
type ImputeStrategy string

const (
	ImputeMean      ImputeStrategy = "mean"
	ImputeIterative ImputeStrategy = "iterative"
)

// ParseImputeStrategy 解析策略名，空串视为 mean。
func ParseImputeStrategy(s string) (ImputeStrategy, error) {
	switch ImputeStrategy(s) {
	case "", ImputeMean:
		return ImputeMean, nil
	case ImputeIterative:
		return ImputeIterative, nil
	default:
		return "", core.NewDomainError(core.ModuleFeature, core.ErrorCodeInvalidInput,
			fmt.Sprintf("unknown impute strategy %q (supported: mean, iterative)", s))
	}
}

// FillNulls 填充缺失值：
//   - float 列按 Strategy 插补（均值或轮转回归）
//   - int / bool 列用众数
//   - string 列仅在表中没有 "Cost" 列时用众数
//
// 整列缺失的列无法计算均值/众数，保持原样并记录 ImputeSkipped 告警。
type FillNulls struct {
	Strategy      ImputeStrategy
	Iterative     *IterativeImputer
	MaxConcurrent int
}

func NewFillNulls(strategy ImputeStrategy) *FillNulls {
	return &FillNulls{Strategy: strategy, Iterative: NewIterativeImputer()}
}

func (f *FillNulls) Name() string        { return "impute.fill_nulls" }
func (f *FillNulls) Kind() pipeline.Kind { return pipeline.KindImpute }

func (f *FillNulls) Process(
	ctx context.Context,
	rctx *core.RunContext,
	df dataframe.DataFrame,
) (dataframe.DataFrame, error) {
	imputeStrings := !frame.Has(df, core.ColCost)

	var floatCols, otherCols []string
	for _, name := range df.Names() {
		col := df.Col(name)
		if frame.CountMissing(col) == 0 {
			continue
		}
		switch col.Type() {
		case series.Float:
			floatCols = append(floatCols, name)
		case series.Int, series.Bool:
			otherCols = append(otherCols, name)
		case series.String:
			if imputeStrings {
				otherCols = append(otherCols, name)
			}
		}
	}

	var filled []series.Series
	if f.Strategy == ImputeIterative && len(floatCols) > 0 {
		cols, err := f.imputeIterative(df, rctx, floatCols)
		if err != nil {
			return df, err
		}
		filled = append(filled, cols...)
		floatCols = nil
	}

	work := append(floatCols, otherCols...)
	results := make([]series.Series, len(work))
	skipped := make([]bool, len(work))
	limit := f.MaxConcurrent
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, name := range work {
		i, name := i, name
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s, ok := fillColumn(df.Col(name))
			results[i], skipped[i] = s, !ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return df, err
	}

	for i, name := range work {
		if skipped[i] {
			rctx.Warn(core.Warning{Kind: core.WarnImputeSkipped, Stage: f.Name(), Column: name, Row: -1})
			continue
		}
		filled = append(filled, results[i])
	}
	return frame.Mutate(df, filled...)
}

// imputeIterative 用轮转回归插补所有浮点列；参与回归的是表中全部浮点列，
// 只有含缺失值的列会被改写。
func (f *FillNulls) imputeIterative(
	df dataframe.DataFrame,
	rctx *core.RunContext,
	targets []string,
) ([]series.Series, error) {
	var names []string
	for _, name := range df.Names() {
		if df.Col(name).Type() == series.Float {
			names = append(names, name)
		}
	}
	data := make([][]float64, len(names))
	for j, name := range names {
		data[j] = frame.Floats(df.Col(name))
		// 无穷值无法参与回归，视为缺失
		for i, v := range data[j] {
			if math.IsInf(v, 0) {
				data[j][i] = math.NaN()
			}
		}
	}

	im := f.Iterative
	if im == nil {
		im = NewIterativeImputer()
	}
	out, _ := im.Impute(data)

	want := make(map[string]bool, len(targets))
	for _, t := range targets {
		want[t] = true
	}
	cols := make([]series.Series, 0, len(targets))
	for j, name := range names {
		if !want[name] {
			continue
		}
		if len(out[j]) > 0 && allNaN(out[j]) {
			rctx.Warn(core.Warning{Kind: core.WarnImputeSkipped, Stage: f.Name(), Column: name, Row: -1})
			continue
		}
		// 只改写原本缺失的单元格
		orig := frame.Floats(df.Col(name))
		for i, v := range orig {
			if !math.IsNaN(v) {
				out[j][i] = v
			}
		}
		cols = append(cols, frame.FloatColumn(name, out[j]))
	}
	return cols, nil
}

// fillColumn 按列类型填充缺失值；无可用观测值时返回 false。
func fillColumn(col series.Series) (series.Series, bool) {
	switch col.Type() {
	case series.Float:
		vals := frame.Floats(col)
		observed := make([]float64, 0, len(vals))
		for _, v := range vals {
			if !math.IsNaN(v) {
				observed = append(observed, v)
			}
		}
		if len(observed) == 0 {
			return col, false
		}
		mean := stat.Mean(observed, nil)
		for i, v := range vals {
			if math.IsNaN(v) {
				vals[i] = mean
			}
		}
		return frame.FloatColumn(col.Name, vals), true

	case series.Int, series.Bool:
		vals := frame.Floats(col)
		mode, ok := frame.ModeFloat(vals)
		if !ok {
			return col, false
		}
		for i, v := range vals {
			if math.IsNaN(v) {
				vals[i] = mode
			}
		}
		if col.Type() == series.Bool {
			flags := make([]bool, len(vals))
			for i, v := range vals {
				flags[i] = v != 0
			}
			return frame.BoolColumn(col.Name, flags, nil), true
		}
		ints := make([]int, len(vals))
		for i, v := range vals {
			ints[i] = int(v)
		}
		return frame.IntColumn(col.Name, ints, nil), true

	default:
		vals, missing := frame.Strings(col)
		mode, ok := frame.ModeString(vals, missing)
		if !ok {
			return col, false
		}
		for i := range vals {
			if missing[i] {
				vals[i] = mode
			}
		}
		return frame.StringColumn(col.Name, vals, nil), true
	}
}

func allNaN(vals []float64) bool {
	for _, v := range vals {
		if !math.IsNaN(v) {
			return false
		}
	}
	return true
}
