package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/courselibrary/pkg/errors"
)

// WindowCounter 固定窗口计数器(限流中间件的共享存储)
// key格式: {prefix}:{subject}:{窗口起始Unix秒}
// 同一窗口内多个实例共享计数，窗口结束后key自动过期
type WindowCounter struct {
	client redis.Cmdable
	prefix string
	window time.Duration
	now    func() time.Time
}

// NewWindowCounter 创建计数器
func NewWindowCounter(client redis.Cmdable, prefix string, window time.Duration) *WindowCounter {
	return &WindowCounter{
		client: client,
		prefix: prefix,
		window: window,
		now:    time.Now,
	}
}

// Key 当前窗口的key
func (c *WindowCounter) Key(subject string) string {
	start := c.now().Truncate(c.window).Unix()
	return fmt.Sprintf("%s:%s:%s", c.prefix, subject, strconv.FormatInt(start, 10))
}

// Incr 当前窗口计数加一并返回新值
// INCR与EXPIRE在同一个MULTI中执行，保证key一定带过期时间
func (c *WindowCounter) Incr(ctx context.Context, subject string) (int64, error) {
	key := c.Key(subject)

	var incr *redis.IntCmd
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, c.window)
		return nil
	})
	if err != nil {
		return 0, apperrors.ErrRedisError.WithCause(err)
	}
	return incr.Val(), nil
}
