package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/xiebiao/courselibrary/internal/infrastructure/config"
	"github.com/xiebiao/courselibrary/internal/interface/http/dto"
	"github.com/xiebiao/courselibrary/pkg/logger"
	"github.com/xiebiao/courselibrary/pkg/metrics"
	"github.com/xiebiao/courselibrary/pkg/tracing"
)

// @title           Course Library API
// @version         1.0
// @description     作者与课程管理API：过滤/搜索作者，课程的增删改查、PUT upsert与JSON Patch局部更新
// @host            localhost:8080
// @BasePath        /
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 2. 初始化日志
	appLog, err := logger.New(logger.Options{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer appLog.Sync()

	appLog.Info("配置加载成功",
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"database", cfg.Database.Driver,
		"redis", cfg.Redis.Enabled,
		"mq", cfg.MQ.Enabled,
	)

	// 3. 映射检查：实体或DTO新增字段而映射函数未更新时拒绝启动
	if err := dto.CheckMappings(); err != nil {
		appLog.Fatal("DTO映射配置无效", "error", err)
	}

	// 4. 指标与链路追踪
	metrics.InitMetrics()
	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer(context.Background(), tracing.Options{
			ServiceName: cfg.Tracing.ServiceName,
			Endpoint:    cfg.Tracing.Endpoint,
			SampleRatio: cfg.Tracing.SampleRatio,
			Insecure:    cfg.Tracing.Insecure,
		})
		if err != nil {
			appLog.Warn("链路追踪初始化失败，继续运行", "error", err)
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					appLog.Warn("关闭链路追踪失败", "error", err)
				}
			}()
		}
	}

	// 5. 依赖注入
	engine, cleanup, err := InitializeApp(cfg, appLog)
	if err != nil {
		appLog.Fatal("初始化应用失败", "error", err)
	}
	defer cleanup()

	// 6. 启动服务
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		appLog.Info("服务启动成功",
			"addr", srv.Addr,
			"health", "http://localhost"+srv.Addr+"/ping",
			"swagger", "http://localhost"+srv.Addr+"/swagger/index.html",
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// 7. 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		appLog.Info("收到退出信号，开始关闭服务", "signal", sig.String())
	case err := <-serveErr:
		appLog.Error("服务异常退出", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLog.Error("服务关闭超时", "error", err)
		return
	}
	appLog.Info("服务已关闭")
}
