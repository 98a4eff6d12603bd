// Package tabprep 是零售交易表的清洗与特征工程工具包。
//
// 设计要点：
// - Pipeline-first: 清洗逻辑拆成严格线性的 Stage 链（Index → Split → Scalar → Encode → Impute → Derive）
// - Table-in, table-out: 每个 Stage 消费上一步的 gota DataFrame，产出新表
// - Warnings-first: 非致命的解析降级记录在 RunContext 上，流水线继续执行
// - Stage 可扩展: 实现 Stage 接口并注册到 config 即可在 YAML 中引用
package tabprep

import (
	"github.com/rushteam/tabprep/core"
	"github.com/rushteam/tabprep/pipeline"
)

// 轻量 facade：便于用户直接 import "tabprep" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Stage = pipeline.Stage
type Kind = pipeline.Kind
type RunContext = core.RunContext
type Warning = core.Warning

const (
	KindIndex  = pipeline.KindIndex
	KindSplit  = pipeline.KindSplit
	KindScalar = pipeline.KindScalar
	KindEncode = pipeline.KindEncode
	KindImpute = pipeline.KindImpute
	KindDerive = pipeline.KindDerive
	KindFilter = pipeline.KindFilter
)

// NewRunContext 创建一次运行的上下文。
func NewRunContext(dataset string) *RunContext { return core.NewRunContext(dataset) }
