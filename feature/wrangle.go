package feature

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/rushteam/tabprep/core"
	"github.com/rushteam/tabprep/pipeline"
	"github.com/rushteam/tabprep/pkg/frame"
)

// Wrangle 派生最终特征：
//  1. Amenities Score：设施布尔列求和，随后删除这些列
//  2. Family Expenses：已婚 income/(children+2)，否则 income/(children+1)
//  3. Store Efficiency：Store Sales / Store Area，随后删除 Store Sales
//  4. Promotion Name Length / Store Kind Length：字符数
//  5. Promotion Frequency：Promotion Name 的频次
//  6. Income Level：收入分桶
//  7. Price Tier：Gross Weight 分桶
//  8. Order Popularity：Order 的频次
//  9. 删除冗余列
type Wrangle struct {
	Amenities   []string
	IncomeLevel *CustomBinner
	PriceTier   *CustomBinner
	DropColumns []string
}

func NewWrangle() *Wrangle {
	income, _ := NewCustomBinner(IncomeLevelEdges, IncomeLevelLabels)
	price, _ := NewCustomBinner(PriceTierEdges, PriceTierLabels)
	return &Wrangle{
		Amenities:   core.AmenityColumns,
		IncomeLevel: income,
		PriceTier:   price,
		DropColumns: core.WrangleDropColumns,
	}
}

func (w *Wrangle) Name() string        { return "derive.wrangle" }
func (w *Wrangle) Kind() pipeline.Kind { return pipeline.KindDerive }

func (w *Wrangle) Process(
	_ context.Context,
	_ *core.RunContext,
	df dataframe.DataFrame,
) (dataframe.DataFrame, error) {
	steps := []func(dataframe.DataFrame) (dataframe.DataFrame, error){
		w.amenitiesScore,
		familyExpenses,
		storeEfficiency,
		textLengths,
		func(df dataframe.DataFrame) (dataframe.DataFrame, error) {
			return JoinValueCounts(df, core.ColPromotionName, core.ColPromotionFrequency)
		},
		func(df dataframe.DataFrame) (dataframe.DataFrame, error) {
			return binColumn(df, w.IncomeLevel, core.ColIncome, core.ColIncomeLevel)
		},
		func(df dataframe.DataFrame) (dataframe.DataFrame, error) {
			return binColumn(df, w.PriceTier, core.ColGrossWeight, core.ColPriceTier)
		},
		func(df dataframe.DataFrame) (dataframe.DataFrame, error) {
			return JoinValueCounts(df, core.ColOrder, core.ColOrderPopularity)
		},
		func(df dataframe.DataFrame) (dataframe.DataFrame, error) {
			return frame.Drop(df, w.DropColumns...)
		},
	}
	var err error
	for _, step := range steps {
		if df, err = step(df); err != nil {
			return df, err
		}
	}
	return df, nil
}

func (w *Wrangle) amenitiesScore(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	cols := w.Amenities
	if len(cols) == 0 {
		cols = core.AmenityColumns
	}
	score := make([]int, df.Nrow())
	for _, name := range cols {
		col, err := frame.Column(df, name)
		if err != nil {
			return df, err
		}
		for i := 0; i < col.Len(); i++ {
			v, ok := cellFloat(col.Elem(i))
			if !ok {
				continue
			}
			score[i] += int(v)
		}
	}
	df, err := frame.Mutate(df, frame.IntColumn(core.ColAmenitiesScore, score, nil))
	if err != nil {
		return df, err
	}
	return frame.Drop(df, cols...)
}

func familyExpenses(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	income, err := frame.Column(df, core.ColIncome)
	if err != nil {
		return df, err
	}
	children, err := frame.Column(df, core.ColChildren)
	if err != nil {
		return df, err
	}
	marriage, err := frame.Column(df, core.ColMarriage)
	if err != nil {
		return df, err
	}
	inc, kids := frame.Floats(income), frame.Floats(children)
	status, statusMissing := frame.Strings(marriage)
	out := make([]float64, len(inc))
	for i := range inc {
		out[i] = FamilyExpenses(inc[i], kids[i], !statusMissing[i] && status[i] == core.MarriageMarried)
	}
	return frame.Mutate(df, frame.FloatColumn(core.ColFamilyExpenses, out))
}

// FamilyExpenses 返回人均收入：已婚家庭人数为 children+2，否则为 children+1。
func FamilyExpenses(income, children float64, married bool) float64 {
	size := children + 1
	if married {
		size = children + 2
	}
	return income / size
}

func storeEfficiency(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	sales, err := frame.Column(df, core.ColStoreSales)
	if err != nil {
		return df, err
	}
	area, err := frame.Column(df, core.ColStoreArea)
	if err != nil {
		return df, err
	}
	s, a := frame.Floats(sales), frame.Floats(area)
	out := make([]float64, len(s))
	for i := range s {
		// 面积为 0 时结果为 ±Inf，与除法语义保持一致
		out[i] = s[i] / a[i]
	}
	df, err = frame.Mutate(df, frame.FloatColumn(core.ColStoreEfficiency, out))
	if err != nil {
		return df, err
	}
	return frame.Drop(df, core.ColStoreSales)
}

func textLengths(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	pairs := [][2]string{
		{core.ColPromotionName, core.ColPromotionNameLength},
		{core.ColStoreKind, core.ColStoreKindLength},
	}
	cols := make([]series.Series, 0, len(pairs))
	for _, p := range pairs {
		col, err := frame.Column(df, p[0])
		if err != nil {
			return df, err
		}
		vals, missing := frame.Strings(col)
		lengths := make([]int, len(vals))
		for i, v := range vals {
			if missing[i] {
				return df, core.NewCoercionError(p[0], "",
					fmt.Errorf("row %d: missing value has no length", i))
			}
			lengths[i] = utf8.RuneCountInString(v)
		}
		cols = append(cols, frame.IntColumn(p[1], lengths, nil))
	}
	return frame.Mutate(df, cols...)
}

func binColumn(df dataframe.DataFrame, b *CustomBinner, src, out string) (dataframe.DataFrame, error) {
	if b == nil {
		return df, fmt.Errorf("no binner configured for %q", out)
	}
	col, err := frame.Column(df, src)
	if err != nil {
		return df, err
	}
	labels, missing := b.LabelAll(frame.Floats(col))
	return frame.Mutate(df, frame.StringColumn(out, labels, missing))
}

// cellFloat 把单元格转为数值；布尔文本 "True"/"False" 也可识别。缺失或无法识别时返回 false。
func cellFloat(e series.Element) (float64, bool) {
	if e.IsNA() {
		return 0, false
	}
	if e.Type() == series.String {
		if b, err := strconv.ParseBool(e.String()); err == nil {
			if b {
				return 1, true
			}
			return 0, true
		}
	}
	f := e.Float()
	if math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
