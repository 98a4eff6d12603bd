package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/tabprep/core"
)

// stubStage 追加一列常量，可选地记录告警或返回错误。
type stubStage struct {
	name string
	col  string
	warn bool
	err  error
}

func (s *stubStage) Name() string { return s.name }
func (s *stubStage) Kind() Kind   { return KindDerive }

func (s *stubStage) Process(_ context.Context, rctx *core.RunContext, df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if s.err != nil {
		return df, s.err
	}
	if s.warn {
		rctx.Warn(core.Warning{Kind: core.WarnParseDegradation, Stage: s.name, Column: s.col, Row: 0})
	}
	vals := make([]int, df.Nrow())
	return df.Mutate(series.New(vals, series.Int, s.col)), nil
}

func input() dataframe.DataFrame {
	return dataframe.New(series.New([]string{"a", "b"}, series.String, "id"))
}

func TestPipeline_Run(t *testing.T) {
	p := New(
		&stubStage{name: "first", col: "x"},
		&stubStage{name: "second", col: "y", warn: true},
	)
	rctx := core.NewRunContext("test")
	out, err := p.Run(context.Background(), rctx, input())
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "x", "y"}, out.Names())
	assert.Equal(t, 1, rctx.WarningCount(core.WarnParseDegradation))

	lbl, ok := rctx.GetLabel("stages")
	require.True(t, ok)
	assert.Equal(t, "first|second", lbl.Value)
}

func TestPipeline_RunStopsOnError(t *testing.T) {
	boom := core.NewMissingColumnError("Place Code")
	third := &stubStage{name: "third", col: "z"}
	p := New(
		&stubStage{name: "first", col: "x"},
		&stubStage{name: "second", err: boom},
		third,
	)
	_, err := p.Run(context.Background(), nil, input())
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	assert.True(t, core.IsMissingColumn(err))
	assert.Contains(t, err.Error(), "stage second")
}

func TestPipeline_RunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(&stubStage{name: "first", col: "x"}).Run(ctx, nil, input())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPipeline_RunInvalidInput(t *testing.T) {
	bad := dataframe.DataFrame{Err: errors.New("broken csv")}
	_, err := New().Run(context.Background(), nil, bad)
	assert.Error(t, err)
}

func TestParseYAML_BuildPipeline(t *testing.T) {
	cfg, err := ParseYAML([]byte(`
pipeline:
  name: demo
  stages:
    - type: stub.x
      config:
        col: x
    - type: stub.y
`))
	require.NoError(t, err)
	assert.Equal(t, "demo", cfg.Pipeline.Name)
	require.Len(t, cfg.Pipeline.Stages, 2)

	factory := NewStageFactory()
	factory.Register("stub.x", func(c map[string]interface{}) (Stage, error) {
		return &stubStage{name: "stub.x", col: c["col"].(string)}, nil
	})

	_, err = cfg.BuildPipeline(factory)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stub.y")
	assert.Contains(t, err.Error(), "stub.x")

	factory.Register("stub.y", func(map[string]interface{}) (Stage, error) {
		return &stubStage{name: "stub.y", col: "y"}, nil
	})
	p, err := cfg.BuildPipeline(factory)
	require.NoError(t, err)
	assert.Len(t, p.Stages, 2)
	assert.Equal(t, []string{"stub.x", "stub.y"}, factory.Types())
}

func TestBuildPipeline_Empty(t *testing.T) {
	cfg := &Config{}
	_, err := cfg.BuildPipeline(NewStageFactory())
	assert.Error(t, err)
}
