// eventlog 订阅作者/课程生命周期事件并写入日志
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/xiebiao/courselibrary/internal/infrastructure/config"
	"github.com/xiebiao/courselibrary/pkg/logger"
	"github.com/xiebiao/courselibrary/pkg/mq"
)

// routingKeys 订阅的事件
var routingKeys = []string{"author.*", "course.*"}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

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

	consumer, err := mq.NewConsumer(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType, cfg.MQ.Queue, routingKeys, appLog)
	if err != nil {
		appLog.Fatal("创建消费者失败", "error", err)
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := consumer.Consume(ctx, newEventHandler(appLog)); err != nil {
		appLog.Error("消费异常退出", "error", err)
		return
	}
	appLog.Info("eventlog已停止")
}
