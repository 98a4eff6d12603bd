package feature

import (
	"context"
	"regexp"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/rushteam/tabprep/core"
	"github.com/rushteam/tabprep/pipeline"
	"github.com/rushteam/tabprep/pkg/frame"
)

// 复合字符串的分隔符
const (
	personEducationSep = ", education: "
	personWorkSep      = "working as"
	placeCodeSep       = "_"
	orderBrandSep      = ", Ordered Brand : "
	personMinFields    = 4
)

var (
	orderDepartmentRe = regexp.MustCompile(`from | department`)
	weightsRe         = regexp.MustCompile(`\{'Gross Weight': |, 'Net Weight': |, 'Package Weight': |\}`)
)

// splitResult 是拆分中间结果：每个输出列一组值与缺失标记。
type splitResult struct {
	names   []string
	vals    [][]string
	missing [][]bool
}

func newSplitResult(n int, names ...string) *splitResult {
	r := &splitResult{names: names}
	r.vals = make([][]string, len(names))
	r.missing = make([][]bool, len(names))
	for i := range names {
		r.vals[i] = make([]string, n)
		r.missing[i] = make([]bool, n)
	}
	return r
}

// setRow 按位置写入一行；pieces 不足的位置置为缺失，空串同样视为缺失。
func (r *splitResult) setRow(row int, pieces ...string) {
	for c := range r.names {
		if c >= len(pieces) || pieces[c] == "" {
			r.missing[c][row] = true
			continue
		}
		r.vals[c][row] = pieces[c]
	}
}

func (r *splitResult) setMissing(row int) {
	for c := range r.names {
		r.missing[c][row] = true
	}
}

func (r *splitResult) columns() []series.Series {
	cols := make([]series.Series, len(r.names))
	for c, name := range r.names {
		cols[c] = frame.StringColumn(name, r.vals[c], r.missing[c])
	}
	return cols
}

// splitColumn 对 src 的每个非缺失单元格调用 fn；fn 返回 false 表示该行格式不符，
// 行内字段全部置为缺失并记录 ParseDegradation 告警。最后写入新列并删除源列。
func splitColumn(
	rctx *core.RunContext,
	stage string,
	df dataframe.DataFrame,
	src string,
	outputs []string,
	fn func(raw string) ([]string, bool),
) (dataframe.DataFrame, error) {
	col, err := frame.Column(df, src)
	if err != nil {
		return df, err
	}
	vals, missing := frame.Strings(col)
	res := newSplitResult(len(vals), outputs...)
	for i, raw := range vals {
		if missing[i] {
			res.setMissing(i)
			continue
		}
		pieces, ok := fn(raw)
		if !ok {
			res.setMissing(i)
			rctx.Warn(core.Warning{
				Kind:   core.WarnParseDegradation,
				Stage:  stage,
				Column: src,
				Row:    i,
				Value:  raw,
			})
			continue
		}
		res.setRow(i, pieces...)
	}

	df, err = frame.Mutate(df, res.columns()...)
	if err != nil {
		return df, err
	}
	if contains(outputs, src) {
		return df, nil
	}
	return frame.Drop(df, src)
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

// SplitPersonDescription 拆分 "Person Description"：
// "Married Male with 3 kids tc, education: PhD working as Engineer"
// -> Marriage=Married, Gender=Male, Children=3, Degree=PhD, Work=Engineer。
type SplitPersonDescription struct{}

func (s *SplitPersonDescription) Name() string        { return "split.person_description" }
func (s *SplitPersonDescription) Kind() pipeline.Kind { return pipeline.KindSplit }

func (s *SplitPersonDescription) Process(
	_ context.Context,
	rctx *core.RunContext,
	df dataframe.DataFrame,
) (dataframe.DataFrame, error) {
	outputs := []string{core.ColMarriage, core.ColGender, core.ColChildren, core.ColDegree, core.ColWork}
	return splitColumn(rctx, s.Name(), df, core.ColPersonDescription, outputs, ParsePersonDescription)
}

// ParsePersonDescription 解析单条人员描述，返回 Marriage/Gender/Children/Degree/Work。
func ParsePersonDescription(raw string) ([]string, bool) {
	personal, degreeWork, ok := strings.Cut(raw, personEducationSep)
	if !ok {
		return nil, false
	}
	fields := strings.Fields(personal)
	if len(fields) < personMinFields {
		return nil, false
	}
	degree, work, ok := strings.Cut(degreeWork, personWorkSep)
	if !ok {
		return nil, false
	}
	// fields[2] 为连接词，fields[4:] 为尾部标记，均丢弃
	return []string{
		fields[0],
		fields[1],
		fields[3],
		strings.TrimSpace(degree),
		strings.TrimSpace(work),
	}, true
}

// SplitPlaceCode 拆分 "Place Code" 为 Store Code 与 Country ISO2。
type SplitPlaceCode struct{}

func (s *SplitPlaceCode) Name() string        { return "split.place_code" }
func (s *SplitPlaceCode) Kind() pipeline.Kind { return pipeline.KindSplit }

func (s *SplitPlaceCode) Process(
	_ context.Context,
	rctx *core.RunContext,
	df dataframe.DataFrame,
) (dataframe.DataFrame, error) {
	outputs := []string{core.ColStoreCode, core.ColCountryISO2}
	return splitColumn(rctx, s.Name(), df, core.ColPlaceCode, outputs, ParsePlaceCode)
}

// ParsePlaceCode 解析 "<store>_<country>"。
func ParsePlaceCode(raw string) ([]string, bool) {
	store, country, ok := strings.Cut(raw, placeCodeSep)
	if !ok {
		return nil, false
	}
	return []string{store, country}, true
}

// SplitCustomerOrder 拆分 "Customer Order" 为 Order、Department、Order Brand。
type SplitCustomerOrder struct{}

func (s *SplitCustomerOrder) Name() string        { return "split.customer_order" }
func (s *SplitCustomerOrder) Kind() pipeline.Kind { return pipeline.KindSplit }

func (s *SplitCustomerOrder) Process(
	_ context.Context,
	rctx *core.RunContext,
	df dataframe.DataFrame,
) (dataframe.DataFrame, error) {
	outputs := []string{core.ColOrder, core.ColDepartment, core.ColOrderBrand}
	return splitColumn(rctx, s.Name(), df, core.ColCustomerOrder, outputs, ParseCustomerOrder)
}

// ParseCustomerOrder 解析 "<order> from <department> department, Ordered Brand : <brand>"。
func ParseCustomerOrder(raw string) ([]string, bool) {
	orderDept, brand, ok := strings.Cut(raw, orderBrandSep)
	if !ok {
		return nil, false
	}
	parts := orderDepartmentRe.Split(orderDept, -1)
	if len(parts) < 2 {
		return nil, false
	}
	return []string{
		strings.TrimSpace(parts[0]),
		strings.TrimSpace(parts[1]),
		strings.TrimSpace(brand),
	}, true
}

// SplitProductWeights 拆分重量复合列为 Gross/Net/Package Weight（仍为字符串，
// 由 scalar.column_types 转成浮点）。两个候选源列都不存在时不做任何处理。
type SplitProductWeights struct {
	Candidates []string
}

func NewSplitProductWeights() *SplitProductWeights {
	return &SplitProductWeights{Candidates: core.WeightsCandidates}
}

func (s *SplitProductWeights) Name() string        { return "split.product_weights" }
func (s *SplitProductWeights) Kind() pipeline.Kind { return pipeline.KindSplit }

func (s *SplitProductWeights) Process(
	_ context.Context,
	rctx *core.RunContext,
	df dataframe.DataFrame,
) (dataframe.DataFrame, error) {
	candidates := s.Candidates
	if len(candidates) == 0 {
		candidates = core.WeightsCandidates
	}
	src, ok := frame.Lookup(df, candidates...)
	if !ok {
		return df, nil
	}
	outputs := []string{core.ColGrossWeight, core.ColNetWeight, core.ColPackageWeight}
	return splitColumn(rctx, s.Name(), df, src, outputs, ParseProductWeights)
}

// ParseProductWeights 解析 "{'Gross Weight': 10.5, 'Net Weight': 9.0, 'Package Weight': 1.5}"。
// 首尾的空片段丢弃，其余按位置对应三个重量字段。
func ParseProductWeights(raw string) ([]string, bool) {
	parts := weightsRe.Split(raw, -1)
	if len(parts) < 2 {
		return nil, false
	}
	if parts[0] == "" {
		parts = parts[1:]
	}
	if n := len(parts); n > 0 && parts[n-1] == "" {
		parts = parts[:n-1]
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts, true
}
