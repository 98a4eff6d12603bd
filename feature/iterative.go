package feature

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// 迭代插补默认参数
const (
	DefaultMaxIter = 10
	DefaultTol     = 1e-3
	DefaultRidge   = 1e-3
)

// IterativeImputer 轮转回归插补器。
//
// 先用列均值做初始填充；之后每一轮依次把含缺失值的列作为目标，
// 以其它所有列（标准化后）为自变量，在该列的观测行上做岭回归，
// 再用回归结果重新预测缺失单元格。当一轮内缺失单元格的最大变化量
// 与观测值最大绝对值之比小于 Tol 时提前停止。
type IterativeImputer struct {
	MaxIter int
	Tol     float64
	Ridge   float64
}

func NewIterativeImputer() *IterativeImputer {
	return &IterativeImputer{MaxIter: DefaultMaxIter, Tol: DefaultTol, Ridge: DefaultRidge}
}

// Impute 对列式数据插补，cols[j][i] 为第 j 列第 i 行，NaN 表示缺失。
// 返回填充后的新数据与实际迭代轮数；完全缺失的列保持原样。
func (im *IterativeImputer) Impute(cols [][]float64) ([][]float64, int) {
	p := len(cols)
	if p == 0 {
		return nil, 0
	}
	n := len(cols[0])

	out := make([][]float64, p)
	mask := make([][]bool, p)
	usable := make([]bool, p)
	scale := 0.0
	for j, col := range cols {
		out[j] = make([]float64, n)
		mask[j] = make([]bool, n)
		observed := make([]float64, 0, n)
		for i, v := range col {
			if math.IsNaN(v) {
				mask[j][i] = true
				continue
			}
			observed = append(observed, v)
			scale = math.Max(scale, math.Abs(v))
		}
		usable[j] = len(observed) > 0
		mean := math.NaN()
		if usable[j] {
			mean = stat.Mean(observed, nil)
		}
		for i, v := range col {
			if mask[j][i] {
				v = mean
			}
			out[j][i] = v
		}
	}

	predictors := 0
	for _, ok := range usable {
		if ok {
			predictors++
		}
	}
	if predictors < 2 || n == 0 {
		return out, 0
	}
	if scale == 0 {
		scale = 1
	}

	maxIter := im.MaxIter
	if maxIter <= 0 {
		maxIter = DefaultMaxIter
	}
	tol := im.Tol
	if tol <= 0 {
		tol = DefaultTol
	}

	iter := 0
	for iter < maxIter {
		iter++
		change := 0.0
		for j := 0; j < p; j++ {
			if !usable[j] || !anyTrue(mask[j]) {
				continue
			}
			delta := im.refit(out, mask, usable, j)
			change = math.Max(change, delta)
		}
		if change/scale < tol {
			break
		}
	}
	return out, iter
}

// refit 以第 target 列为因变量做一次岭回归并更新其缺失单元格，返回最大变化量。
func (im *IterativeImputer) refit(data [][]float64, mask [][]bool, usable []bool, target int) float64 {
	n := len(data[target])

	// 自变量标准化；常数列标准化后恒为 0
	feats := make([][]float64, 0, len(data)-1)
	for j, col := range data {
		if j == target || !usable[j] {
			continue
		}
		mean, std := stat.MeanStdDev(col, nil)
		z := make([]float64, n)
		if std > 0 && !math.IsNaN(std) {
			for i, v := range col {
				z[i] = (v - mean) / std
			}
		}
		feats = append(feats, z)
	}
	k := len(feats) + 1

	var rows []int
	for i := 0; i < n; i++ {
		if !mask[target][i] {
			rows = append(rows, i)
		}
	}
	design := mat.NewDense(len(rows), k, nil)
	y := mat.NewVecDense(len(rows), nil)
	for r, i := range rows {
		design.Set(r, 0, 1)
		for f, z := range feats {
			design.Set(r, f+1, z[i])
		}
		y.SetVec(r, data[target][i])
	}

	var gram mat.Dense
	gram.Mul(design.T(), design)
	ridge := im.Ridge
	if ridge <= 0 {
		ridge = DefaultRidge
	}
	// 截距项不参与正则
	for d := 1; d < k; d++ {
		gram.Set(d, d, gram.At(d, d)+ridge)
	}
	var rhs mat.VecDense
	rhs.MulVec(design.T(), y)

	var w mat.VecDense
	if err := w.SolveVec(&gram, &rhs); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return 0
		}
	}

	delta := 0.0
	for i := 0; i < n; i++ {
		if !mask[target][i] {
			continue
		}
		pred := w.AtVec(0)
		for f, z := range feats {
			pred += w.AtVec(f+1) * z[i]
		}
		if math.IsNaN(pred) || math.IsInf(pred, 0) {
			continue
		}
		delta = math.Max(delta, math.Abs(pred-data[target][i]))
		data[target][i] = pred
	}
	return delta
}

func anyTrue(bs []bool) bool {
	for _, b := range bs {
		if b {
			return true
		}
	}
	return false
}
