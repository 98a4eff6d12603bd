package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/rs/zerolog"

	"github.com/rushteam/tabprep/core"
)

// Pipeline 是 tabprep 的核心抽象：把清洗与特征工程拆成严格线性的 Stage 链。
// 后一个 Stage 消费前一个 Stage 的输出表；任何 Stage 出错都会中止整次运行，
// 不存在部分成功的输出。
type Pipeline struct {
	Stages []Stage
	Logger zerolog.Logger
}

// New 创建 Pipeline，日志默认关闭。
func New(stages ...Stage) *Pipeline {
	return &Pipeline{Stages: stages, Logger: zerolog.Nop()}
}

// WithLogger 设置日志。
func (p *Pipeline) WithLogger(logger zerolog.Logger) *Pipeline {
	p.Logger = logger
	return p
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RunContext,
	df dataframe.DataFrame,
) (dataframe.DataFrame, error) {
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("input table: %w", df.Err)
	}
	if rctx == nil {
		rctx = core.NewRunContext("")
	}

	cur := df
	for i, stage := range p.Stages {
		// 只在 Stage 之间检查取消，Stage 内部不存在挂起点
		if err := ctx.Err(); err != nil {
			return dataframe.DataFrame{}, err
		}

		log := p.Logger.With().
			Int("step", i+1).
			Str("stage", stage.Name()).
			Str("kind", string(stage.Kind())).
			Logger()
		before := len(rctx.Warnings())
		start := time.Now()

		next, err := stage.Process(ctx, rctx, cur)
		if err != nil {
			log.Error().Err(err).Msg("stage failed")
			return dataframe.DataFrame{}, fmt.Errorf("stage %s: %w", stage.Name(), err)
		}
		if next.Err != nil {
			log.Error().Err(next.Err).Msg("stage produced an invalid table")
			return dataframe.DataFrame{}, fmt.Errorf("stage %s: %w", stage.Name(), next.Err)
		}

		warnings := rctx.Warnings()[before:]
		for _, w := range summarize(warnings) {
			log.Warn().Str("warning", string(w.kind)).Str("column", w.column).Int("rows", w.rows).Msg("non-fatal degradation")
		}
		log.Debug().
			Int("rows", next.Nrow()).
			Int("cols", next.Ncol()).
			Dur("elapsed", time.Since(start)).
			Msg("stage done")

		rctx.PutLabel("stages", core.Label{Value: stage.Name(), Source: string(stage.Kind())})
		cur = next
	}
	p.Logger.Info().
		Str("dataset", rctx.Dataset).
		Int("rows", cur.Nrow()).
		Int("cols", cur.Ncol()).
		Int("warnings", len(rctx.Warnings())).
		Msg("pipeline finished")
	return cur, nil
}

type warningSummary struct {
	kind   core.WarningKind
	column string
	rows   int
}

// summarize 把逐行告警按 (类别, 列) 聚合，避免日志按行刷屏。
func summarize(ws []core.Warning) []warningSummary {
	var out []warningSummary
	index := make(map[string]int)
	for _, w := range ws {
		key := string(w.Kind) + "\x00" + w.Column
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, warningSummary{kind: w.Kind, column: w.Column})
		}
		out[i].rows++
	}
	return out
}
