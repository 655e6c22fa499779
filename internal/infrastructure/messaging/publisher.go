// Package messaging 作者/课程生命周期事件的发布
package messaging

import (
	"context"
	"errors"

	"github.com/xiebiao/courselibrary/internal/domain/library"
	"github.com/xiebiao/courselibrary/pkg/circuitbreaker"
	"github.com/xiebiao/courselibrary/pkg/logger"
	"github.com/xiebiao/courselibrary/pkg/metrics"
)

// BreakerName 事件发布熔断器名称
const BreakerName = "event-publisher"

// Broker 消息发布能力(由mq.Publisher实现)
type Broker interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// EventPublisher 经熔断器保护的事件发布者
// 事件的routing key即事件类型(course.created等)
type EventPublisher struct {
	broker  Broker
	breaker *circuitbreaker.CircuitBreaker
	log     *logger.Logger
}

// NewEventPublisher 创建事件发布者
func NewEventPublisher(broker Broker, breaker *circuitbreaker.CircuitBreaker, log *logger.Logger) *EventPublisher {
	breaker.OnStateChange(func(name string, from, to circuitbreaker.State) {
		log.Warn("熔断器状态变化", "name", name, "from", from.String(), "to", to.String())
	})
	return &EventPublisher{broker: broker, breaker: breaker, log: log}
}

// Publish 发布事件
// 熔断器打开时立即返回circuitbreaker.ErrOpenState
func (p *EventPublisher) Publish(ctx context.Context, event library.Event) error {
	err := p.breaker.Execute(ctx, func(ctx context.Context) error {
		return p.broker.Publish(ctx, event.Type, event)
	})
	metrics.RecordEvent(event.Type, err)

	if errors.Is(err, circuitbreaker.ErrOpenState) {
		p.log.Debug("熔断器打开，跳过事件发布", "type", event.Type)
	}
	return err
}

// NoopPublisher 未启用消息队列时使用，只记录日志
type NoopPublisher struct {
	log *logger.Logger
}

// NewNoopPublisher 创建空发布者
func NewNoopPublisher(log *logger.Logger) *NoopPublisher {
	return &NoopPublisher{log: log}
}

// Publish 记录事件后丢弃
func (p *NoopPublisher) Publish(ctx context.Context, event library.Event) error {
	p.log.Debug("消息队列未启用，丢弃事件", "type", event.Type, "author_id", event.AuthorID.String())
	return nil
}

var (
	_ library.EventPublisher = (*EventPublisher)(nil)
	_ library.EventPublisher = (*NoopPublisher)(nil)
)
