package feature

import (
	"context"
	"fmt"

	"github.com/go-gota/gota/dataframe"

	"github.com/rushteam/tabprep/core"
	"github.com/rushteam/tabprep/pipeline"
	"github.com/rushteam/tabprep/pkg/frame"
)

// SetIndex 把位置型匿名主键列重命名为 id，并移动到第一列。
// id 必须存在且唯一，缺失或重复均为致命错误。
type SetIndex struct {
	// Candidates 为候选源列名，按优先级匹配；为空时使用 core.IDCandidates
	Candidates []string
}

func NewSetIndex() *SetIndex {
	return &SetIndex{Candidates: core.IDCandidates}
}

func (s *SetIndex) Name() string        { return "index.set" }
func (s *SetIndex) Kind() pipeline.Kind { return pipeline.KindIndex }

func (s *SetIndex) Process(
	_ context.Context,
	_ *core.RunContext,
	df dataframe.DataFrame,
) (dataframe.DataFrame, error) {
	candidates := s.Candidates
	if len(candidates) == 0 {
		candidates = core.IDCandidates
	}
	src, err := frame.Require(df, candidates...)
	if err != nil {
		return df, err
	}

	if src != core.ColID {
		if frame.Has(df, core.ColID) {
			return df, core.NewInvalidInputError(core.ColID,
				fmt.Sprintf("cannot rename %q: column already exists", src))
		}
		df = df.Rename(core.ColID, src)
		if df.Err != nil {
			return df, fmt.Errorf("rename %q: %w", src, df.Err)
		}
	}

	vals, missing := frame.Strings(df.Col(core.ColID))
	seen := make(map[string]int, len(vals))
	for i, v := range vals {
		if missing[i] {
			return df, core.NewInvalidInputError(core.ColID, fmt.Sprintf("row %d has no id", i))
		}
		if j, dup := seen[v]; dup {
			return df, core.NewInvalidInputError(core.ColID,
				fmt.Sprintf("duplicate id %q at rows %d and %d", v, j, i))
		}
		seen[v] = i
	}

	return frame.MoveFirst(df, core.ColID)
}
