//go:build wireinject
// +build wireinject

// Wire依赖注入配置
//
// 修改Provider后运行 `wire gen ./cmd/api` 重新生成wire_gen.go
//
// 依赖链：
// *gin.Engine ← router.Handlers ← Handler ← UseCase ← RepositoryFactory ← *gorm.DB ← *config.Config

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"

	appauthor "github.com/xiebiao/courselibrary/internal/application/author"
	appcourse "github.com/xiebiao/courselibrary/internal/application/course"
	"github.com/xiebiao/courselibrary/internal/infrastructure/config"
	"github.com/xiebiao/courselibrary/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/courselibrary/internal/interface/http/handler"
	"github.com/xiebiao/courselibrary/internal/interface/http/router"
	"github.com/xiebiao/courselibrary/pkg/logger"
)

// infrastructureSet 数据库、事件发布、限流
var infrastructureSet = wire.NewSet(
	provideDB,
	provideEventPublisher,
	provideRateLimiter,
)

// repositorySet 仓储工厂
var repositorySet = wire.NewSet(
	provideRetryPolicy,
	mysql.NewRepositoryFactory,
)

// applicationSet 全部用例
var applicationSet = wire.NewSet(
	appauthor.NewListAuthorsUseCase,
	appauthor.NewGetAuthorUseCase,
	appauthor.NewGetAuthorCollectionUseCase,
	appauthor.NewCreateAuthorsUseCase,
	appauthor.NewDeleteAuthorUseCase,
	appcourse.NewListCoursesUseCase,
	appcourse.NewGetCourseUseCase,
	appcourse.NewCreateCourseUseCase,
	appcourse.NewReplaceCourseUseCase,
	appcourse.NewPatchCourseUseCase,
	appcourse.NewDeleteCourseUseCase,
)

// handlerSet HTTP处理器与路由
var handlerSet = wire.NewSet(
	handler.NewRootHandler,
	handler.NewAuthorHandler,
	handler.NewAuthorCollectionHandler,
	handler.NewCourseHandler,
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)

// InitializeApp 组装应用，返回的cleanup按创建的逆序释放资源
func InitializeApp(cfg *config.Config, log *logger.Logger) (*gin.Engine, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		applicationSet,
		handlerSet,
	)
	return nil, nil, nil
}
