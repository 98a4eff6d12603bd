package builders

import (
	"fmt"

	"github.com/rushteam/tabprep/config"
	"github.com/rushteam/tabprep/core"
	"github.com/rushteam/tabprep/feature"
	"github.com/rushteam/tabprep/pipeline"
	"github.com/rushteam/tabprep/pkg/conv"
)

func init() {
	config.Register("index.set", BuildSetIndexStage)
	config.Register("split.person_description", BuildPersonDescriptionStage)
	config.Register("split.place_code", BuildPlaceCodeStage)
	config.Register("split.customer_order", BuildCustomerOrderStage)
	config.Register("split.product_weights", BuildProductWeightsStage)
	config.Register("encode.market_features", BuildMarketFeaturesStage)
	config.Register("encode.recyclable", BuildRecyclableStage)
	config.Register("encode.columns", BuildEncodeColumnsStage)
	config.Register("scalar.cost_sales", BuildCostSalesStage)
	config.Register("scalar.income", BuildIncomeStage)
	config.Register("scalar.column_types", BuildColumnTypesStage)
	config.Register("scalar.package_weight", BuildPackageWeightStage)
	config.Register("impute.fill_nulls", BuildFillNullsStage)
	config.Register("derive.wrangle", BuildWrangleStage)
	config.Register("derive.expr", BuildDeriveExprStage)
	config.Register("filter.expr", BuildFilterExprStage)
}

func BuildSetIndexStage(cfg map[string]interface{}) (pipeline.Stage, error) {
	return &feature.SetIndex{
		Candidates: conv.ConfigGetStrings(cfg, "candidates", core.IDCandidates),
	}, nil
}

func BuildPersonDescriptionStage(map[string]interface{}) (pipeline.Stage, error) {
	return &feature.SplitPersonDescription{}, nil
}

func BuildPlaceCodeStage(map[string]interface{}) (pipeline.Stage, error) {
	return &feature.SplitPlaceCode{}, nil
}

func BuildCustomerOrderStage(map[string]interface{}) (pipeline.Stage, error) {
	return &feature.SplitCustomerOrder{}, nil
}

func BuildProductWeightsStage(cfg map[string]interface{}) (pipeline.Stage, error) {
	return &feature.SplitProductWeights{
		Candidates: conv.ConfigGetStrings(cfg, "candidates", core.WeightsCandidates),
	}, nil
}

func BuildMarketFeaturesStage(cfg map[string]interface{}) (pipeline.Stage, error) {
	return &feature.MarketFeatures{
		Column:        conv.ConfigGet(cfg, "column", core.ColMarketFeatures),
		MaxConcurrent: int(conv.ConfigGetInt64(cfg, "max_concurrent", 0)),
	}, nil
}

func BuildRecyclableStage(cfg map[string]interface{}) (pipeline.Stage, error) {
	stage := feature.NewRecyclable()
	raw, ok := cfg["mapping"].(map[string]interface{})
	if !ok {
		return stage, nil
	}
	mapping := make(map[string]string, len(raw))
	for k, v := range raw {
		s, ok := conv.ToString(v)
		if !ok {
			return nil, fmt.Errorf("mapping[%q]: expected string, got %T", k, v)
		}
		mapping[k] = s
	}
	stage.Mapping = mapping
	return stage, nil
}

func BuildEncodeColumnsStage(cfg map[string]interface{}) (pipeline.Stage, error) {
	stage := feature.NewEncodeColumns()
	raw, ok := cfg["children"].(map[string]interface{})
	if !ok {
		return stage, nil
	}
	mapping := make(map[string]int, len(raw))
	for k, v := range raw {
		f, ok := conv.ToFloat64(v)
		if !ok {
			return nil, fmt.Errorf("children[%q]: expected number, got %T", k, v)
		}
		mapping[k] = int(f)
	}
	stage.Children = mapping
	return stage, nil
}

func BuildCostSalesStage(cfg map[string]interface{}) (pipeline.Stage, error) {
	return &feature.CostSales{
		Columns: conv.ConfigGetStrings(cfg, "columns", []string{core.ColStoreSales, core.ColStoreCost}),
		Scale:   conv.ConfigGetFloat64(cfg, "scale", feature.MillionScale),
	}, nil
}

func BuildIncomeStage(cfg map[string]interface{}) (pipeline.Stage, error) {
	return &feature.Income{
		Candidates: conv.ConfigGetStrings(cfg, "candidates", core.IncomeCandidates),
		Scale:      conv.ConfigGetFloat64(cfg, "scale", feature.ThousandScale),
	}, nil
}

func BuildColumnTypesStage(map[string]interface{}) (pipeline.Stage, error) {
	return feature.NewColumnTypes(), nil
}

func BuildPackageWeightStage(cfg map[string]interface{}) (pipeline.Stage, error) {
	return &feature.PackageWeight{Overwrite: conv.ConfigGet(cfg, "overwrite", false)}, nil
}

func BuildFillNullsStage(cfg map[string]interface{}) (pipeline.Stage, error) {
	strategy, err := feature.ParseImputeStrategy(conv.ConfigGet(cfg, "strategy", ""))
	if err != nil {
		return nil, err
	}
	stage := feature.NewFillNulls(strategy)
	stage.Iterative.MaxIter = int(conv.ConfigGetInt64(cfg, "max_iter", feature.DefaultMaxIter))
	stage.Iterative.Tol = conv.ConfigGetFloat64(cfg, "tol", feature.DefaultTol)
	stage.Iterative.Ridge = conv.ConfigGetFloat64(cfg, "ridge", feature.DefaultRidge)
	stage.MaxConcurrent = int(conv.ConfigGetInt64(cfg, "max_concurrent", 0))
	return stage, nil
}

func BuildWrangleStage(cfg map[string]interface{}) (pipeline.Stage, error) {
	income, err := feature.NewCustomBinner(
		conv.ConfigGetFloats(cfg, "income_edges", feature.IncomeLevelEdges),
		conv.ConfigGetStrings(cfg, "income_labels", feature.IncomeLevelLabels),
	)
	if err != nil {
		return nil, fmt.Errorf("income bins: %w", err)
	}
	price, err := feature.NewCustomBinner(
		conv.ConfigGetFloats(cfg, "price_edges", feature.PriceTierEdges),
		conv.ConfigGetStrings(cfg, "price_labels", feature.PriceTierLabels),
	)
	if err != nil {
		return nil, fmt.Errorf("price bins: %w", err)
	}
	return &feature.Wrangle{
		Amenities:   conv.ConfigGetStrings(cfg, "amenities", core.AmenityColumns),
		IncomeLevel: income,
		PriceTier:   price,
		DropColumns: conv.ConfigGetStrings(cfg, "drop", core.WrangleDropColumns),
	}, nil
}

func BuildDeriveExprStage(cfg map[string]interface{}) (pipeline.Stage, error) {
	stage, err := feature.NewDeriveExpr(conv.ConfigGet(cfg, "column", ""), conv.ConfigGet(cfg, "expr", ""))
	if err != nil {
		return nil, err
	}
	return stage, nil
}

func BuildFilterExprStage(cfg map[string]interface{}) (pipeline.Stage, error) {
	stage, err := feature.NewFilterExpr(conv.ConfigGet(cfg, "expr", ""))
	if err != nil {
		return nil, err
	}
	return stage, nil
}
