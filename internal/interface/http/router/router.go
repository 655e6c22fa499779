// Package router 组装gin引擎：中间件、路由、指标与文档
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "github.com/xiebiao/courselibrary/docs"
	"github.com/xiebiao/courselibrary/internal/infrastructure/config"
	"github.com/xiebiao/courselibrary/internal/interface/http/handler"
	"github.com/xiebiao/courselibrary/internal/interface/http/middleware"
	"github.com/xiebiao/courselibrary/pkg/logger"
	"github.com/xiebiao/courselibrary/pkg/validation"
)

// Handlers 全部HTTP处理器
type Handlers struct {
	Root             *handler.RootHandler
	Author           *handler.AuthorHandler
	AuthorCollection *handler.AuthorCollectionHandler
	Course           *handler.CourseHandler
}

// New 创建gin引擎并注册路由
// limiter为nil时不限流
//
// 中间件顺序：
// RequestID → Logger → Recovery → Metrics → CORS → (otelgin) → RateLimit → handler
// Logger在Recovery外层，panic后的500同样会被记录
func New(cfg *config.Config, log *logger.Logger, h Handlers, limiter *middleware.RateLimiter) *gin.Engine {
	switch cfg.Server.Mode {
	case gin.ReleaseMode:
		gin.SetMode(gin.ReleaseMode)
	case gin.TestMode:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.UseJSONFieldNames(v)
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.Recovery(log),
		middleware.Metrics(),
		middleware.CORS(cfg.CORS),
	)
	if cfg.Tracing.Enabled {
		r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Prometheus指标
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger文档(生产环境关闭)
	if cfg.Server.Mode != gin.ReleaseMode {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group("/api")
	if limiter != nil {
		api.Use(limiter.Handler())
	}
	{
		api.GET("", h.Root.GetRoot)

		authors := api.Group("/authors")
		{
			authors.GET("", h.Author.ListAuthors)
			authors.HEAD("", h.Author.ListAuthors)
			authors.OPTIONS("", h.Author.AuthorsOptions)
			authors.POST("", h.Author.CreateAuthor)
			authors.GET("/:authorId", h.Author.GetAuthor)
			authors.DELETE("/:authorId", h.Author.DeleteAuthor)

			courses := authors.Group("/:authorId/courses")
			{
				courses.GET("", h.Course.ListCourses)
				courses.POST("", h.Course.CreateCourse)
				courses.GET("/:courseId", h.Course.GetCourse)
				courses.PUT("/:courseId", h.Course.UpdateCourse)
				courses.PATCH("/:courseId", h.Course.PartiallyUpdateCourse)
				courses.DELETE("/:courseId", h.Course.DeleteCourse)
			}
		}

		collections := api.Group("/authorcollections")
		{
			collections.GET("/:ids", h.AuthorCollection.GetAuthorCollection)
			collections.POST("", h.AuthorCollection.CreateAuthorCollection)
		}
	}

	return r
}
