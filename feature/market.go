package feature

import (
	"context"
	"runtime"
	"sort"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"golang.org/x/sync/errgroup"

	"github.com/rushteam/tabprep/core"
	"github.com/rushteam/tabprep/pipeline"
	"github.com/rushteam/tabprep/pkg/frame"
)

// MarketFeatures 把 "Additional Features in market" 展开为一组 0/1 指示列。
//
// 第一遍收集去重后的 token（去掉 "[]"，按 ", " 切分，去掉单引号），
// 第二遍对每个 token 按子串包含关系生成 int 列。列按 token 字典序排列。
// 子串匹配会带来误报（token "Bar" 会命中 "Salad Bar"），这是既定行为。
// 源列不存在时不做处理，因此重复执行是幂等的。
type MarketFeatures struct {
	Column string
	// MaxConcurrent 限制并发计算的列数，<=0 时使用 GOMAXPROCS
	MaxConcurrent int
}

func NewMarketFeatures() *MarketFeatures {
	return &MarketFeatures{Column: core.ColMarketFeatures}
}

func (m *MarketFeatures) Name() string        { return "encode.market_features" }
func (m *MarketFeatures) Kind() pipeline.Kind { return pipeline.KindEncode }

func (m *MarketFeatures) Process(
	ctx context.Context,
	_ *core.RunContext,
	df dataframe.DataFrame,
) (dataframe.DataFrame, error) {
	src := m.Column
	if src == "" {
		src = core.ColMarketFeatures
	}
	if !frame.Has(df, src) {
		return df, nil
	}
	vals, missing := frame.Strings(df.Col(src))
	tokens := MarketTokens(vals, missing)

	cols := make([]series.Series, len(tokens))
	limit := m.MaxConcurrent
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, tok := range tokens {
		i, tok := i, tok
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			flags := make([]int, len(vals))
			for r, raw := range vals {
				if !missing[r] && strings.Contains(raw, tok) {
					flags[r] = 1
				}
			}
			cols[i] = frame.IntColumn(tok, flags, nil)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return df, err
	}

	df, err := frame.Mutate(df, cols...)
	if err != nil {
		return df, err
	}
	return frame.Drop(df, src)
}

// MarketTokens 返回字典序排列的去重 token 列表，空 token 被忽略。
func MarketTokens(vals []string, missing []bool) []string {
	set := make(map[string]struct{})
	for i, raw := range vals {
		if missing != nil && missing[i] {
			continue
		}
		for _, tok := range strings.Split(strings.Trim(raw, "[]"), ", ") {
			tok = strings.Trim(tok, "'")
			if tok == "" {
				continue
			}
			set[tok] = struct{}{}
		}
	}
	tokens := make([]string, 0, len(set))
	for tok := range set {
		tokens = append(tokens, tok)
	}
	sort.Strings(tokens)
	return tokens
}
