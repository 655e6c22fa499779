package mysql

import (
	"context"
	"database/sql/driver"
	"errors"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

// RetryPolicy 瞬时故障重试策略
// 只有IsTransient判定为瞬时的错误才会重试，其他错误立即返回
type RetryPolicy struct {
	MaxRetries int           // 最大重试次数(不含首次执行)
	MaxDelay   time.Duration // 单次退避的最大间隔
	Initial    time.Duration // 首次退避间隔，默认100ms
}

// DefaultRetryPolicy 最多重试5次，单次间隔不超过30秒
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 5, MaxDelay: 30 * time.Second}
}

// Do 按策略执行fn
func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = 100 * time.Millisecond
	if p.Initial > 0 {
		exp.InitialInterval = p.Initial
	}
	if p.MaxDelay > 0 {
		exp.MaxInterval = p.MaxDelay
	}
	exp.MaxElapsedTime = 0 // 由重试次数控制

	retries := p.MaxRetries
	if retries < 0 {
		retries = 0
	}
	b := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(retries)), ctx)

	return backoff.Retry(func() error {
		err := fn()
		if err != nil && !IsTransient(err) {
			return backoff.Permanent(err)
		}
		return err
	}, b)
}

// MySQL错误码
const (
	mysqlLockWaitTimeout = 1205
	mysqlDeadlock        = 1213
)

// PostgreSQL SQLSTATE
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

var transientMessages = []string{
	"bad connection",
	"connection refused",
	"connection reset",
	"broken pipe",
	"i/o timeout",
	"database is locked",
	"deadlock",
	"lock wait timeout",
	"could not serialize",
}

// IsTransient 是否为可重试的瞬时错误(断连、死锁、锁等待超时、序列化失败)
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysqldriver.ErrInvalidConn) {
		return true
	}

	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDeadlock || myErr.Number == mysqlLockWaitTimeout
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected
	}

	msg := strings.ToLower(err.Error())
	for _, m := range transientMessages {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
