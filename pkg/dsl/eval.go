package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境：唯一的变量 row 是“列名 -> 单元格值”的映射。
func initCELEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("row", cel.MapType(cel.StringType, cel.DynType)),
	)
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = initCELEnv()
	})
	return celEnv, celEnvErr
}

// Eval 是行级表达式解释器，使用 CEL (Common Expression Language) 实现。
// 表达式在 Compile 时编译一次，之后可对任意多行求值；cel.Program 线程安全。
//
// 行数据约定：
//   - 数值列统一为 double（整数列也会转成 double），便于直接做算术
//   - 字符串列为 string，布尔列为 bool
//   - 缺失值为 null，可用 row["Col"] != null 判断
//   - 条件表达式的两个分支类型须一致，数值分支与 null 混用时用 dyn() 包裹
//
// 示例：
//   - `row["Store Sales"] > 0.0`
//   - `row["Marriage"] == "Married" && row["Children"] >= 2.0`
//   - `row["Gross Weight"] - row["Net Weight"]`
//   - `row["a"] != null ? dyn(row["a"] * 2.0) : null`
type Eval struct {
	expr string
	prg  cel.Program
}

// Compile 编译表达式。表达式为空时返回错误。
func Compile(expr string) (*Eval, error) {
	if expr == "" {
		return nil, fmt.Errorf("empty expression")
	}
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %w", issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return &Eval{expr: expr, prg: prg}, nil
}

// Expr 返回原始表达式。
func (e *Eval) Expr() string { return e.expr }

func (e *Eval) eval(row map[string]any) (any, error) {
	out, _, err := e.prg.Eval(map[string]any{"row": row})
	if err != nil {
		// 访问不存在的 key 时 CEL 会返回错误
		return nil, fmt.Errorf("eval error: %w", err)
	}
	if out.Type() == types.NullType {
		return nil, nil
	}
	return out.Value(), nil
}

// Bool 对一行求值，表达式必须返回布尔值。
func (e *Eval) Bool(row map[string]any) (bool, error) {
	v, err := e.eval(row)
	if err != nil {
		return false, err
	}
	result, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", v)
	}
	return result, nil
}

// Float 对一行求值，表达式必须返回数值（double / int / uint）。
// 返回 ok=false 表示结果为 null（例如引用了缺失单元格的条件表达式）。
func (e *Eval) Float(row map[string]any) (float64, bool, error) {
	v, err := e.eval(row)
	if err != nil {
		return 0, false, err
	}
	switch val := v.(type) {
	case float64:
		return val, true, nil
	case int64:
		return float64(val), true, nil
	case uint64:
		return float64(val), true, nil
	case nil:
		return 0, false, nil
	default:
		return 0, false, fmt.Errorf("expression must return a number, got %T", v)
	}
}
