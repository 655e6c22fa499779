package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/courselibrary/pkg/errors"
	"github.com/xiebiao/courselibrary/pkg/logger"
	"github.com/xiebiao/courselibrary/pkg/response"
)

// UnexpectedErrorMessage panic时返回给客户端的提示
const UnexpectedErrorMessage = "发生了意外错误,请稍后重试。"

// Recovery 捕获panic，记录堆栈并返回通用的500响应
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Error("请求处理发生panic",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"request_id", c.GetString(response.RequestIDKey),
			"panic", recovered,
			"stack", string(debug.Stack()),
		)
		response.ErrorWithCode(c, http.StatusInternalServerError, apperrors.ErrCodeInternal, UnexpectedErrorMessage)
	})
}
