package pipeline

import (
	"context"

	"github.com/go-gota/gota/dataframe"

	"github.com/rushteam/tabprep/core"
)

// Kind 用于标记 Stage 类型，方便观测/治理/编排（例如按阶段打点）。
type Kind string

const (
	KindIndex  Kind = "index"  // 身份列规范化
	KindSplit  Kind = "split"  // 复合字符串拆分
	KindScalar Kind = "scalar" // 数值抽取与单位归一
	KindEncode Kind = "encode" // 类别重编码 / 独热展开
	KindImpute Kind = "impute" // 缺失值填充
	KindDerive Kind = "derive" // 特征派生
	KindFilter Kind = "filter" // 行过滤
)

// Stage 是 Pipeline 的最小可扩展单元。
// 统一采用“输入表 -> 输出表”的形态；Stage 不在表之外保存任何中间状态，
// 非致命告警写入 RunContext。
type Stage interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		rctx *core.RunContext,
		df dataframe.DataFrame,
	) (dataframe.DataFrame, error)
}

// StageBuilder 根据配置构建 Stage。
type StageBuilder func(config map[string]interface{}) (Stage, error)
