package config

import "github.com/rushteam/tabprep/pipeline"

// DefaultStageTypes 是标准清洗流程的 Stage 顺序。后面的 Stage 依赖前面产出的列，
// 调整顺序前需确认列依赖。
var DefaultStageTypes = []string{
	"index.set",
	"split.person_description",
	"split.place_code",
	"split.customer_order",
	"encode.market_features",
	"scalar.cost_sales",
	"split.product_weights",
	"encode.recyclable",
	"scalar.income",
	"scalar.column_types",
	"scalar.package_weight",
	"impute.fill_nulls",
	"encode.columns",
	"derive.wrangle",
}

// DefaultPipelineConfig 返回标准清洗流程的配置，各 Stage 使用默认参数。
func DefaultPipelineConfig() *pipeline.Config {
	cfg := &pipeline.Config{}
	cfg.Pipeline.Name = "default"
	for _, t := range DefaultStageTypes {
		cfg.Pipeline.Stages = append(cfg.Pipeline.Stages, pipeline.StageConfig{Type: t})
	}
	return cfg
}
