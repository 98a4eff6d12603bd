package core

import (
	"fmt"
	"sync"
)

// Label 是运行轨迹中的一等公民：可解释、可追踪。
// Value 与 Source 的语义由调用方自定义；这里只提供标准化的合并规则。
type Label struct {
	Value  string `json:"value"`
	Source string `json:"source"`
}

// MergeLabel 合并同名 Label，遵循“保留历史、可追踪”的默认策略。
// - Value: 以 '|' 累积
// - Source: 以 ',' 累积
func MergeLabel(existing Label, incoming Label) Label {
	if existing.Value == "" {
		return incoming
	}
	if incoming.Value == "" {
		return existing
	}

	merged := existing
	merged.Value = existing.Value + "|" + incoming.Value
	switch {
	case existing.Source == "":
		merged.Source = incoming.Source
	case incoming.Source == "":
		merged.Source = existing.Source
	default:
		merged.Source = existing.Source + "," + incoming.Source
	}
	return merged
}

// WarningKind 标识非致命告警的类别。
type WarningKind string

const (
	// WarnParseDegradation 复合字符串不符合预期分隔格式，该行拆出的字段置为缺失
	WarnParseDegradation WarningKind = "parse_degradation"
	// WarnImputeSkipped 整列缺失，无法计算均值/众数，保持原样
	WarnImputeSkipped WarningKind = "impute_skipped"
)

// Warning 是单条非致命告警，流水线继续执行。
type Warning struct {
	Kind   WarningKind
	Stage  string
	Column string
	Row    int // 行号（从 0 开始）；-1 表示整列
	Value  string
}

func (w Warning) String() string {
	if w.Row < 0 {
		return fmt.Sprintf("%s: %s column %q", w.Stage, w.Kind, w.Column)
	}
	return fmt.Sprintf("%s: %s column %q row %d value %q", w.Stage, w.Kind, w.Column, w.Row, w.Value)
}

// RunContext 承载一次流水线运行的上下文信息，贯穿所有 Stage 透传。
// Stage 内部可能并发写入 Warnings，因此所有写操作都加锁。
type RunContext struct {
	// Dataset 是数据集名称/版本，仅用于日志与轨迹
	Dataset string

	// Params 运行级参数（例如 CLI 传入的调试开关）
	Params map[string]any

	mu       sync.Mutex
	labels   map[string]Label
	warnings []Warning
}

// NewRunContext 创建运行上下文。
func NewRunContext(dataset string) *RunContext {
	return &RunContext{
		Dataset: dataset,
		Params:  make(map[string]any),
		labels:  make(map[string]Label),
	}
}

// PutLabel 写入运行级 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (rctx *RunContext) PutLabel(key string, lbl Label) {
	rctx.mu.Lock()
	defer rctx.mu.Unlock()
	if rctx.labels == nil {
		rctx.labels = make(map[string]Label)
	}
	if old, ok := rctx.labels[key]; ok {
		rctx.labels[key] = MergeLabel(old, lbl)
		return
	}
	rctx.labels[key] = lbl
}

// GetLabel 获取运行级 Label。
func (rctx *RunContext) GetLabel(key string) (Label, bool) {
	rctx.mu.Lock()
	defer rctx.mu.Unlock()
	lbl, ok := rctx.labels[key]
	return lbl, ok
}

// Warn 记录一条非致命告警。
func (rctx *RunContext) Warn(w Warning) {
	rctx.mu.Lock()
	defer rctx.mu.Unlock()
	rctx.warnings = append(rctx.warnings, w)
}

// Warnings 返回已记录告警的副本。
func (rctx *RunContext) Warnings() []Warning {
	rctx.mu.Lock()
	defer rctx.mu.Unlock()
	out := make([]Warning, len(rctx.warnings))
	copy(out, rctx.warnings)
	return out
}

// WarningCount 按类别统计告警数。
func (rctx *RunContext) WarningCount(kind WarningKind) int {
	rctx.mu.Lock()
	defer rctx.mu.Unlock()
	n := 0
	for _, w := range rctx.warnings {
		if w.Kind == kind {
			n++
		}
	}
	return n
}
