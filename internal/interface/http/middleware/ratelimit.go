package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/xiebiao/courselibrary/internal/infrastructure/config"
	apperrors "github.com/xiebiao/courselibrary/pkg/errors"
	"github.com/xiebiao/courselibrary/pkg/logger"
	"github.com/xiebiao/courselibrary/pkg/metrics"
	"github.com/xiebiao/courselibrary/pkg/response"
)

// 限流后端(指标标签)
const (
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

const (
	// limiterIdleTTL 超过该时间未访问的内存限流器会被清理
	limiterIdleTTL = 10 * time.Minute
	sweepInterval  = 5 * time.Minute
)

// WindowCounter 固定窗口计数器(由redis.WindowCounter实现)
// 返回subject在当前窗口内的请求数(含本次)
type WindowCounter interface {
	Incr(ctx context.Context, subject string) (int64, error)
}

// limiterInfo 内存限流器及其最后访问时间
type limiterInfo struct {
	limiter      *rate.Limiter
	lastAccessed time.Time
}

// RateLimiter 按客户端IP限流
// 设计说明:
// 1. 配置了Redis时使用Redis固定窗口计数，多实例共享配额
// 2. 未配置Redis或Redis不可用时退回进程内令牌桶(golang.org/x/time/rate)
// 3. 超出配额返回429
type RateLimiter struct {
	counter           WindowCounter
	requestsPerMinute int
	burst             int
	log               *logger.Logger

	mu        sync.Mutex
	limiters  map[string]*limiterInfo
	lastSweep time.Time
	now       func() time.Time
}

// NewRateLimiter 创建限流器，counter为nil时只使用内存令牌桶
func NewRateLimiter(cfg config.RateLimitConfig, counter WindowCounter, log *logger.Logger) *RateLimiter {
	burst := cfg.Burst
	if burst <= 0 {
		burst = cfg.RequestsPerMinute
	}
	return &RateLimiter{
		counter:           counter,
		requestsPerMinute: cfg.RequestsPerMinute,
		burst:             burst,
		log:               log,
		limiters:          make(map[string]*limiterInfo),
		lastSweep:         time.Now(),
		now:               time.Now,
	}
}

// Handler 返回gin中间件
func (l *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l.requestsPerMinute <= 0 {
			c.Next()
			return
		}

		allowed, backend := l.Allow(c.Request.Context(), c.ClientIP())
		if !allowed {
			metrics.RecordRateLimited(backend)
			response.Error(c, apperrors.ErrTooManyRequests)
			return
		}
		c.Next()
	}
}

// Allow 判断ip的本次请求是否放行，同时返回做出判断的后端
func (l *RateLimiter) Allow(ctx context.Context, ip string) (bool, string) {
	if l.counter != nil {
		count, err := l.counter.Incr(ctx, ip)
		if err == nil {
			return count <= int64(l.requestsPerMinute), BackendRedis
		}
		l.log.Warn("Redis限流不可用，使用内存限流", "error", err)
	}
	return l.getLimiter(ip).Allow(), BackendMemory
}

// getLimiter 获取ip对应的令牌桶，顺带清理长时间未访问的条目
func (l *RateLimiter) getLimiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > sweepInterval {
		for key, info := range l.limiters {
			if now.Sub(info.lastAccessed) > limiterIdleTTL {
				delete(l.limiters, key)
			}
		}
		l.lastSweep = now
	}

	info, ok := l.limiters[ip]
	if !ok {
		info = &limiterInfo{
			limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.requestsPerMinute)), l.burst),
		}
		l.limiters[ip] = info
	}
	info.lastAccessed = now
	return info.limiter
}

func (l *RateLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}
