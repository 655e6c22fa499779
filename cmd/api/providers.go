package main

import (
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/courselibrary/internal/domain/library"
	"github.com/xiebiao/courselibrary/internal/infrastructure/config"
	"github.com/xiebiao/courselibrary/internal/infrastructure/messaging"
	"github.com/xiebiao/courselibrary/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/courselibrary/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/courselibrary/internal/interface/http/middleware"
	"github.com/xiebiao/courselibrary/pkg/circuitbreaker"
	"github.com/xiebiao/courselibrary/pkg/logger"
	"github.com/xiebiao/courselibrary/pkg/mq"
)

// rateLimitKeyPrefix Redis限流计数器的key前缀
const rateLimitKeyPrefix = "courselibrary:ratelimit"

// provideDB 创建数据库连接，cleanup时关闭连接池
func provideDB(cfg *config.Config, log *logger.Logger) (*gorm.DB, func(), error) {
	db, err := mysql.NewDB(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := mysql.Close(db); err != nil {
			log.Warn("关闭数据库连接失败", "error", err)
		}
	}
	return db, cleanup, nil
}

// provideRetryPolicy 从配置提取瞬时故障重试策略
func provideRetryPolicy(cfg *config.Config) mysql.RetryPolicy {
	return mysql.RetryPolicy{
		MaxRetries: cfg.Database.MaxRetryCount,
		MaxDelay:   cfg.Database.MaxRetryDelay,
	}
}

// provideEventPublisher 消息队列启用时返回经熔断器保护的RabbitMQ发布者
// RabbitMQ连接失败不阻止启动，退化为只记录日志的空发布者
func provideEventPublisher(cfg *config.Config, log *logger.Logger) (library.EventPublisher, func(), error) {
	if !cfg.MQ.Enabled {
		log.Info("消息队列未启用，事件只记录日志")
		return messaging.NewNoopPublisher(log), func() {}, nil
	}

	broker, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType, log)
	if err != nil {
		log.Warn("连接RabbitMQ失败，事件只记录日志", "error", err)
		return messaging.NewNoopPublisher(log), func() {}, nil
	}

	breaker := circuitbreaker.New(messaging.BreakerName, circuitbreaker.Config{
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
	})
	cleanup := func() {
		_ = broker.Close()
	}
	return messaging.NewEventPublisher(broker, breaker, log), cleanup, nil
}

// provideRateLimiter 未启用限流时返回nil
// Redis可用时多实例共享计数，否则只使用进程内令牌桶
func provideRateLimiter(cfg *config.Config, log *logger.Logger) (*middleware.RateLimiter, func(), error) {
	if !cfg.RateLimit.Enabled {
		return nil, func() {}, nil
	}
	if !cfg.Redis.Enabled {
		return middleware.NewRateLimiter(cfg.RateLimit, nil, log), func() {}, nil
	}

	client, err := redis.NewClient(cfg, log)
	if err != nil {
		log.Warn("Redis不可用，使用内存限流", "error", err)
		return middleware.NewRateLimiter(cfg.RateLimit, nil, log), func() {}, nil
	}

	counter := redis.NewWindowCounter(client, rateLimitKeyPrefix, time.Minute)
	cleanup := func() {
		_ = client.Close()
	}
	return middleware.NewRateLimiter(cfg.RateLimit, counter, log), cleanup, nil
}
