package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/courselibrary/pkg/errors"
	"github.com/xiebiao/courselibrary/pkg/tracing"
	"github.com/xiebiao/courselibrary/pkg/validation"
)

// RequestIDKey 请求ID在gin.Context中的key（由RequestID中间件写入）
const RequestIDKey = "request_id"

// Response 统一错误/状态响应结构
// 设计说明：
// 1. 资源类接口（作者、课程）直接返回资源JSON，配合正确的HTTP状态码
// 2. 错误与状态类接口使用 {code,message,data}，Code是业务错误码
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ProblemDetails 校验失败响应（application/problem+json）
type ProblemDetails struct {
	Type     string              `json:"type" example:"https://courselibrary.com/modelvalidationproblem"`
	Title    string              `json:"title"`
	Status   int                 `json:"status" example:"422"`
	Detail   string              `json:"detail"`
	Instance string              `json:"instance" example:"/api/authors/d28888e9-2ba9-473a-a40f-e38cb54f9b35/courses"`
	Errors   map[string][]string `json:"errors"`
	TraceID  string              `json:"traceId"`
}

const (
	problemType   = "https://courselibrary.com/modelvalidationproblem"
	problemTitle  = "发生了一个或多个模型验证错误。"
	problemDetail = "请查看errors属性获取详细信息。"

	// ProblemContentType 校验失败响应的Content-Type
	ProblemContentType = "application/problem+json"
)

// Success 成功响应（Code=0表示成功）
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// OK 200，直接返回资源
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 201，Location指向新资源
func Created(c *gin.Context, location string, data interface{}) {
	c.Header("Location", location)
	c.JSON(http.StatusCreated, data)
}

// NoContent 204
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// NotFound 404
func NotFound(c *gin.Context) {
	Error(c, apperrors.ErrNotFound)
}

// Error 错误响应（自动处理AppError）
// 内部错误通过c.Error挂到gin上下文，由日志中间件统一记录
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	if appErr.Err != nil {
		_ = c.Error(err)
	}

	c.AbortWithStatusJSON(apperrors.HTTPStatus(appErr.Code), Response{
		Code:    appErr.Code,
		Message: appErr.Message,
	})
}

// ErrorWithCode 自定义HTTP状态、错误码和消息
func ErrorWithCode(c *gin.Context, status, code int, message string) {
	c.AbortWithStatusJSON(status, Response{
		Code:    code,
		Message: message,
	})
}

// ValidationProblem 422，渲染错误收集器中的全部错误
func ValidationProblem(c *gin.Context, errs *validation.Errors) {
	body := ProblemDetails{
		Type:     problemType,
		Title:    problemTitle,
		Status:   http.StatusUnprocessableEntity,
		Detail:   problemDetail,
		Instance: c.Request.URL.Path,
		Errors:   errs.Map(),
		TraceID:  TraceID(c),
	}
	c.Header("Content-Type", ProblemContentType)
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, body)
}

// TraceID 优先使用OpenTelemetry的TraceID，否则退回请求ID
func TraceID(c *gin.Context) string {
	if id := tracing.ExtractTraceID(c.Request.Context()); id != "" {
		return id
	}
	return c.GetString(RequestIDKey)
}
