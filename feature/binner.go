package feature

import (
	"fmt"
	"math"
	"sort"
)

// CustomBinner 按给定边界分桶并返回桶标签。
//
// n 个边界定义 n-1 个桶，默认右闭区间 (a, b]：边界值归入左侧的桶，
// 小于等于第一个边界或大于最后一个边界的值不属于任何桶。
// Right 为 false 时改为左闭区间 [a, b)。
type CustomBinner struct {
	Edges  []float64
	Labels []string
	Right  bool
}

// NewCustomBinner 创建右闭区间分桶器，边界会被排序。
func NewCustomBinner(edges []float64, labels []string) (*CustomBinner, error) {
	if len(edges) < 2 {
		return nil, fmt.Errorf("binner needs at least 2 edges, got %d", len(edges))
	}
	if len(labels) != len(edges)-1 {
		return nil, fmt.Errorf("binner needs %d labels for %d edges, got %d", len(edges)-1, len(edges), len(labels))
	}
	sorted := make([]float64, len(edges))
	copy(sorted, edges)
	sort.Float64s(sorted)
	return &CustomBinner{Edges: sorted, Labels: labels, Right: true}, nil
}

// Bin 返回桶下标；不属于任何桶（含 NaN）时返回 -1。
func (b *CustomBinner) Bin(value float64) int {
	if math.IsNaN(value) || len(b.Edges) < 2 {
		return -1
	}
	for i := 0; i < len(b.Edges)-1; i++ {
		lo, hi := b.Edges[i], b.Edges[i+1]
		if b.Right && value > lo && value <= hi {
			return i
		}
		if !b.Right && value >= lo && value < hi {
			return i
		}
	}
	return -1
}

// Label 返回值所在桶的标签；不属于任何桶时返回 ("", false)。
func (b *CustomBinner) Label(value float64) (string, bool) {
	i := b.Bin(value)
	if i < 0 || i >= len(b.Labels) {
		return "", false
	}
	return b.Labels[i], true
}

// LabelAll 对一列值分桶，返回标签与缺失标记。
func (b *CustomBinner) LabelAll(vals []float64) ([]string, []bool) {
	labels := make([]string, len(vals))
	missing := make([]bool, len(vals))
	for i, v := range vals {
		l, ok := b.Label(v)
		if !ok {
			missing[i] = true
			continue
		}
		labels[i] = l
	}
	return labels, missing
}

// 默认分桶
var (
	IncomeLevelEdges  = []float64{0, 25000, 50000, math.Inf(1)}
	IncomeLevelLabels = []string{"Low", "Middle", "High"}
	PriceTierEdges    = []float64{0, 5, 10, math.Inf(1)}
	PriceTierLabels   = []string{"Low", "Medium", "High"}
)
