package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/courselibrary/pkg/logger"
	"github.com/xiebiao/courselibrary/pkg/response"
)

// slowRequestThreshold 超过该耗时的请求记录为慢请求
const slowRequestThreshold = 3 * time.Second

// Logger 请求日志中间件
// 记录方法、路径、状态码、耗时、客户端IP与请求ID；
// handler通过c.Error挂上的内部错误在这里统一输出，不返回给客户端
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		fields := []interface{}{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency", latency.String(),
			"client_ip", c.ClientIP(),
			"request_id", c.GetString(response.RequestIDKey),
		}

		switch {
		case len(c.Errors) > 0:
			log.Error("请求处理出错", append(fields, "errors", c.Errors.String())...)
		case status >= 500:
			log.Error("请求失败", fields...)
		case status >= 400:
			log.Warn("请求失败", fields...)
		default:
			log.Info("请求完成", fields...)
		}

		if latency > slowRequestThreshold {
			log.Warn("慢请求", "method", c.Request.Method, "path", path, "latency", latency.String())
		}
	}
}
