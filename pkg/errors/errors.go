package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code用于客户端判断错误类型，HTTPStatus负责映射为HTTP状态码
// 2. Message是用户友好的提示信息
// 3. Err是内部错误，仅记录到日志，不返回给客户端
type AppError struct {
	Code    int    `json:"code"`    // 业务错误码
	Message string `json:"message"` // 用户友好的错误提示
	Err     error  `json:"-"`       // 内部错误（不序列化）
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码比较，使预定义错误经过WithCause/WrapDB后仍可用errors.Is匹配
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// WithCause 基于预定义错误附加内部原因（不修改原错误）
func (e *AppError) WithCause(err error) *AppError {
	return &AppError{Code: e.Code, Message: e.Message, Err: err}
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装系统错误（如数据库错误）
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// WrapDB 包装数据库错误
func WrapDB(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeDatabaseError,
		Message: message,
		Err:     err,
	}
}

// =========================================
// 错误码定义
// =========================================
// 规范：
// - 4xxxx: 客户端错误（参数错误、资源不存在、校验失败）
// - 5xxxx: 服务端错误（数据库异常、调用约定被破坏）

const (
	// 系统级错误码（50000-50099）
	ErrCodeInternal        = 50000 // 内部错误
	ErrCodeDatabaseError   = 50001 // 数据库错误
	ErrCodeRedisError      = 50002 // Redis错误
	ErrCodeInvalidArgument = 50003 // 调用约定被破坏（空ID、空参数）

	// 资源错误（40400-40499）
	ErrCodeNotFound       = 40400 // 资源不存在(通用)
	ErrCodeAuthorNotFound = 40401 // 作者不存在
	ErrCodeCourseNotFound = 40402 // 课程不存在

	// 业务错误（40000-40099）
	ErrCodeDuplicateEntry = 40009 // 重复记录(通用)

	// 参数错误（40900-40999）
	ErrCodeInvalidParams  = 40900 // 参数错误
	ErrCodeBindError      = 40901 // 参数绑定失败
	ErrCodeInvalidOrderBy = 40902 // 排序字段不支持

	// 校验错误（42200-42299）
	ErrCodeValidationFailed = 42200 // 模型校验失败

	// 限流（42900）
	ErrCodeTooManyRequests = 42900 // 请求过于频繁
)

// =========================================
// 预定义错误
// =========================================

var (
	// 系统错误
	ErrInternal        = New(ErrCodeInternal, "系统内部错误")
	ErrDatabaseError   = New(ErrCodeDatabaseError, "数据库错误")
	ErrRedisError      = New(ErrCodeRedisError, "缓存服务错误")
	ErrInvalidArgument = New(ErrCodeInvalidArgument, "参数不能为空")

	// 资源不存在
	ErrNotFound       = New(ErrCodeNotFound, "资源不存在")
	ErrAuthorNotFound = New(ErrCodeAuthorNotFound, "作者不存在")
	ErrCourseNotFound = New(ErrCodeCourseNotFound, "课程不存在")

	// 参数错误
	ErrInvalidParams    = New(ErrCodeInvalidParams, "参数错误")
	ErrBindError        = New(ErrCodeBindError, "参数格式错误")
	ErrInvalidOrderBy   = New(ErrCodeInvalidOrderBy, "不支持的排序字段")
	ErrValidationFailed = New(ErrCodeValidationFailed, "模型校验失败")

	ErrTooManyRequests = New(ErrCodeTooManyRequests, "请求过于频繁,请稍后再试")
)

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "系统内部错误")
}

// InvalidArgument 创建调用约定错误，name为违反约定的参数名
func InvalidArgument(name string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidArgument,
		Message: ErrInvalidArgument.Message,
		Err:     fmt.Errorf("argument %q must not be empty", name),
	}
}

// HTTPStatus 业务错误码 → HTTP状态码
func HTTPStatus(code int) int {
	switch {
	case code == ErrCodeTooManyRequests:
		return http.StatusTooManyRequests
	case code == ErrCodeValidationFailed:
		return http.StatusUnprocessableEntity
	case code >= 40400 && code < 40500:
		return http.StatusNotFound
	case code >= 40900 && code < 41000:
		return http.StatusBadRequest
	case code >= 40000 && code < 50000:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
