package core

// 列名目录：所有 Stage 读写的列名都在这里集中声明。
// 同一逻辑字段在不同数据集版本中可能有多个列名，按优先级写成候选列表，
// 由 frame.Lookup 做首个命中解析。

// 身份列
const (
	ColID = "id"
)

// IDCandidates 是位置型匿名主键列的候选名：pandas 导出的 "Unnamed: 0"，
// gota 对空表头自动命名的 "X0"，以及已经规范化过的 "id"。
var IDCandidates = []string{"Unnamed: 0", "X0", ColID}

// 复合字符串源列
const (
	ColPersonDescription = "Person Description"
	ColPlaceCode         = "Place Code"
	ColCustomerOrder     = "Customer Order"
	ColMarketFeatures    = "Additional Features in market"
	ColIsRecyclable      = "Is Recyclable?"
)

// WeightsCandidates 是重量复合列的候选名（每个数据集版本只会出现其中一个）。
var WeightsCandidates = []string{"Product Weights Data in (KG)", "Weights Data"}

// 人口统计
const (
	ColMarriage = "Marriage"
	ColGender   = "Gender"
	ColChildren = "Children"
	ColDegree   = "Degree"
	ColWork     = "Work"
)

// 地理 / 订单
const (
	ColStoreCode   = "Store Code"
	ColCountryISO2 = "Country ISO2"
	ColOrder       = "Order"
	ColDepartment  = "Department"
	ColOrderBrand  = "Order Brand"
)

// 财务
const (
	ColStoreSales = "Store Sales"
	ColStoreCost  = "Store Cost"
	ColIncome     = "Min. Person Yearly Income"
	ColCost       = "Cost"
)

// IncomeCandidates 是收入源列的候选名，按优先级排列；结果统一写入 ColIncome。
var IncomeCandidates = []string{"Min. Yearly Income", ColIncome, "Yearly Income"}

// 物理属性
const (
	ColGrossWeight   = "Gross Weight"
	ColNetWeight     = "Net Weight"
	ColPackageWeight = "Package Weight"
	ColStoreArea     = "Store Area"
	ColGroceryArea   = "Grocery Area"
	ColMeatArea      = "Meat Area"
	ColFrozenArea    = "Frozen Area"
)

// 其它自由文本
const (
	ColPromotionName = "Promotion Name"
	ColStoreKind     = "Store Kind"
)

// 派生特征
const (
	ColAmenitiesScore      = "Amenities Score"
	ColFamilyExpenses      = "Family Expenses"
	ColStoreEfficiency     = "Store Efficiency"
	ColPromotionNameLength = "Promotion Name Length"
	ColStoreKindLength     = "Store Kind Length"
	ColPromotionFrequency  = "Promotion Frequency"
	ColOrderPopularity     = "Order Popularity"
	ColIncomeLevel         = "Income Level"
	ColPriceTier           = "Price Tier"
)

// AmenityColumns 是参与 Amenities Score 求和的五个布尔设施列。
var AmenityColumns = []string{"Coffee Bar", "Video Store", "Salad Bar", "Prepared Food", "Florist"}

// WrangleDropColumns 是特征派生结束后固定删除的冗余列。
var WrangleDropColumns = []string{ColFrozenArea, ColStoreArea, ColStoreCost, ColNetWeight}

// 婚姻状态取值
const MarriageMarried = "Married"
