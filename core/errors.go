package core

import (
	"errors"
	"fmt"
	"strings"
)

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX），可穿透 fmt.Errorf("%w") 包装
//
// 使用场景：
//   - Stage 错误：MISSING_COLUMN, COERCION, INVALID_INPUT
//   - Store 错误：NOT_FOUND, NOT_SUPPORTED
type DomainError struct {
	Code    string // 错误代码（如 "MISSING_COLUMN", "COERCION"）
	Message string // 错误消息
	Module  string // 模块名称（如 "feature", "store"）
	Column  string // 相关列名（可选）
	Err     error  // 底层错误（可选）
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error { return e.Err }

// IsDomainError 检查错误链中是否存在 DomainError
func IsDomainError(err error) bool {
	return GetDomainError(err) != nil
}

// GetDomainError 获取错误链中的 DomainError，如果不存在则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	ErrorCodeNotFound      = "NOT_FOUND"      // 资源不存在
	ErrorCodeNotSupported  = "NOT_SUPPORTED"  // 操作不支持
	ErrorCodeInvalidInput  = "INVALID_INPUT"  // 输入无效
	ErrorCodeInternalError = "INTERNAL_ERROR" // 内部错误
	ErrorCodeMissingColumn = "MISSING_COLUMN" // 所需列（及其所有别名）均不存在，致命
	ErrorCodeCoercion      = "COERCION"       // 值无法转换为目标类型，严格列上致命
)

// 模块名称常量
const (
	ModuleStore    = "store"    // 存储模块
	ModuleFeature  = "feature"  // 特征处理模块
	ModulePipeline = "pipeline" // 流水线模块
)

// NewMissingColumnError 创建缺列错误。candidates 为该逻辑字段可接受的列名（按优先级）。
func NewMissingColumnError(candidates ...string) *DomainError {
	col := ""
	if len(candidates) > 0 {
		col = candidates[0]
	}
	return &DomainError{
		Module:  ModuleFeature,
		Code:    ErrorCodeMissingColumn,
		Column:  col,
		Message: fmt.Sprintf("missing column: none of [%s] present", strings.Join(quoteAll(candidates), ", ")),
	}
}

// NewCoercionError 创建类型转换错误。
func NewCoercionError(column string, value string, err error) *DomainError {
	return &DomainError{
		Module:  ModuleFeature,
		Code:    ErrorCodeCoercion,
		Column:  column,
		Message: fmt.Sprintf("coerce column %q: cannot convert %q", column, value),
		Err:     err,
	}
}

// NewInvalidInputError 创建输入无效错误。
func NewInvalidInputError(column, message string) *DomainError {
	return &DomainError{
		Module:  ModuleFeature,
		Code:    ErrorCodeInvalidInput,
		Column:  column,
		Message: message,
	}
}

func quoteAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = fmt.Sprintf("%q", s)
	}
	return out
}

func hasCode(err error, code string) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool { return hasCode(err, ErrorCodeNotFound) }

// IsNotSupported 检查错误是否为 NOT_SUPPORTED
func IsNotSupported(err error) bool { return hasCode(err, ErrorCodeNotSupported) }

// IsInvalidInput 检查错误是否为 INVALID_INPUT
func IsInvalidInput(err error) bool { return hasCode(err, ErrorCodeInvalidInput) }

// IsMissingColumn 检查错误是否为 MISSING_COLUMN
func IsMissingColumn(err error) bool { return hasCode(err, ErrorCodeMissingColumn) }

// IsCoercion 检查错误是否为 COERCION
func IsCoercion(err error) bool { return hasCode(err, ErrorCodeCoercion) }
