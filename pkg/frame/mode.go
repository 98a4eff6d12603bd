package frame

import (
	"math"
	"sort"
)

// ModeString 返回非缺失值中出现次数最多的字符串；并列时取字典序最小者。
// 全部缺失时返回 ("", false)。
func ModeString(vals []string, missing []bool) (string, bool) {
	counts := make(map[string]int)
	for i, v := range vals {
		if missing != nil && missing[i] {
			continue
		}
		counts[v]++
	}
	if len(counts) == 0 {
		return "", false
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	best := keys[0]
	for _, k := range keys[1:] {
		if counts[k] > counts[best] {
			best = k
		}
	}
	return best, true
}

// ModeFloat 返回非 NaN 值中出现次数最多的值；并列时取最小者。
// 全部为 NaN 时返回 (NaN, false)。
func ModeFloat(vals []float64) (float64, bool) {
	counts := make(map[float64]int)
	for _, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		counts[v]++
	}
	if len(counts) == 0 {
		return math.NaN(), false
	}
	keys := make([]float64, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Float64s(keys)
	best := keys[0]
	for _, k := range keys[1:] {
		if counts[k] > counts[best] {
			best = k
		}
	}
	return best, true
}
