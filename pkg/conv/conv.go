// Package conv 提供类型转换与配置取值的泛型工具，用于简化 Stage 构建器中的重复逻辑。
package conv

import (
	"fmt"
	"math"
	"strings"
)

// ToFloat64 将 any 转为 float64。
// 支持 float64、float32、int、int64、int32；bool 视为 1.0/0.0；
// 字符串 "inf" / "+inf" / "-inf" 视为无穷（YAML 中写分箱边界时常用）。
func ToFloat64(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case int32:
		return float64(val), true
	case bool:
		if val {
			return 1.0, true
		}
		return 0.0, true
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "inf", "+inf", ".inf", "+.inf":
			return math.Inf(1), true
		case "-inf", "-.inf":
			return math.Inf(-1), true
		}
		return 0, false
	default:
		return 0, false
	}
}

// ToString 将 any 转为 string。
// 仅支持 string 类型，否则返回 ("", false)。
func ToString(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// ConvertSlice 将 []T 按 convert 转为 []U，convert 返回 false 的元素被跳过。
func ConvertSlice[T, U any](s []T, convert func(T) (U, bool)) []U {
	if s == nil {
		return nil
	}
	out := make([]U, 0, len(s))
	for _, v := range s {
		if u, ok := convert(v); ok {
			out = append(out, u)
		}
	}
	return out
}

// SliceAnyToString 将 []any（即 []interface{}）转为 []string。
// 元素为 string 直接保留，为数字时格式化为 "%v"。
func SliceAnyToString(v any) []string {
	if v == nil {
		return nil
	}
	if ss, ok := v.([]string); ok {
		return ss
	}
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	return ConvertSlice(raw, func(e any) (string, bool) {
		if s, ok := e.(string); ok {
			return s, true
		}
		if f, ok := ToFloat64(e); ok {
			return fmt.Sprintf("%v", f), true
		}
		return "", false
	})
}

// SliceAnyToFloat64 将 []any 转为 []float64；任一元素无法转换时返回 (nil, false)。
func SliceAnyToFloat64(v any) ([]float64, bool) {
	if v == nil {
		return nil, false
	}
	if fs, ok := v.([]float64); ok {
		return fs, true
	}
	raw, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]float64, 0, len(raw))
	for _, e := range raw {
		f, ok := ToFloat64(e)
		if !ok {
			return nil, false
		}
		out = append(out, f)
	}
	return out, true
}

// ConfigGet 从 map[string]any（如 YAML/JSON 解析结果）按 key 取 T，取不到或类型不符时返回 defaultVal。
func ConfigGet[T any](m map[string]any, key string, defaultVal T) T {
	if m == nil {
		return defaultVal
	}
	v, ok := m[key]
	if !ok {
		return defaultVal
	}
	t, ok := v.(T)
	if !ok {
		return defaultVal
	}
	return t
}

// ConfigGetInt64 从 config 取 int64。YAML/JSON 常得到 int 或 float64，此处兼容并统一为 int64。
func ConfigGetInt64(m map[string]any, key string, defaultVal int64) int64 {
	if m == nil {
		return defaultVal
	}
	v, ok := m[key]
	if !ok {
		return defaultVal
	}
	switch val := v.(type) {
	case int:
		return int64(val)
	case int64:
		return val
	case float64:
		return int64(val)
	case float32:
		return int64(val)
	default:
		return defaultVal
	}
}

// ConfigGetFloat64 从 config 取 float64，兼容 int / float / "inf"。
func ConfigGetFloat64(m map[string]any, key string, defaultVal float64) float64 {
	if m == nil {
		return defaultVal
	}
	v, ok := m[key]
	if !ok {
		return defaultVal
	}
	if f, ok := ToFloat64(v); ok {
		return f
	}
	return defaultVal
}

// ConfigGetStrings 从 config 取字符串列表，取不到时返回 defaultVal。
func ConfigGetStrings(m map[string]any, key string, defaultVal []string) []string {
	if m == nil {
		return defaultVal
	}
	if ss := SliceAnyToString(m[key]); ss != nil {
		return ss
	}
	return defaultVal
}

// ConfigGetFloats 从 config 取浮点列表，取不到或有非法元素时返回 defaultVal。
func ConfigGetFloats(m map[string]any, key string, defaultVal []float64) []float64 {
	if m == nil {
		return defaultVal
	}
	if fs, ok := SliceAnyToFloat64(m[key]); ok {
		return fs
	}
	return defaultVal
}
