package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	apperrors "github.com/xiebiao/courselibrary/pkg/errors"
	"github.com/xiebiao/courselibrary/pkg/metrics"
	"github.com/xiebiao/courselibrary/pkg/response"
	"github.com/xiebiao/courselibrary/pkg/validation"
)

// routeID 解析路由中的GUID参数
// 不是合法GUID时按路由不匹配处理，直接返回404
func routeID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.NotFound(c)
		return uuid.Nil, false
	}
	return id, true
}

// parseIDList 解析 (id1,id2,...) 形式的ID列表，括号可省略
func parseIDList(raw string) ([]uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "(")
	raw = strings.TrimSuffix(raw, ")")
	if strings.TrimSpace(raw) == "" {
		return nil, errors.New("ID列表为空")
	}

	parts := strings.Split(raw, ",")
	ids := make([]uuid.UUID, 0, len(parts))
	for _, p := range parts {
		id, err := uuid.Parse(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// formatIDList 把ID列表格式化为 (id1,id2,...)
func formatIDList(ids []uuid.UUID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return "(" + strings.Join(parts, ",") + ")"
}

// bindJSON 绑定请求体
// 请求体无法解析(非JSON、类型不匹配)时直接返回400；
// binding tag校验失败写入errs，由调用方和规则校验的结果一起返回
func bindJSON(c *gin.Context, obj interface{}, errs *validation.Errors) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		validation.CollectBinding(err, errs)
		return true
	}

	response.Error(c, apperrors.ErrBindError.WithCause(err))
	return false
}

// validationProblem 返回422问题文档并记录指标
func validationProblem(c *gin.Context, errs *validation.Errors) {
	path := c.FullPath()
	if path == "" {
		path = c.Request.URL.Path
	}
	metrics.RecordValidationFailure(path)
	response.ValidationProblem(c, errs)
}

// absoluteURL 以请求的scheme和host拼出绝对地址
func absoluteURL(c *gin.Context, path string) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + c.Request.Host + path
}

// internalError PUT流程中的意外错误，只返回错误的用户提示
func internalError(c *gin.Context, err error) {
	_ = c.Error(err)
	msg := apperrors.GetAppError(err).Message
	response.ErrorWithCode(c, http.StatusInternalServerError, apperrors.ErrCodeInternal, "服务器内部错误: "+msg)
}
