package main

import (
	"context"
	"encoding/json"

	"github.com/xiebiao/courselibrary/internal/domain/library"
	"github.com/xiebiao/courselibrary/pkg/logger"
	"github.com/xiebiao/courselibrary/pkg/mq"
)

// newEventHandler 解码事件并记录日志
// 事件只用于记录，任何消息都会被确认
func newEventHandler(log *logger.Logger) mq.Handler {
	return func(ctx context.Context, routingKey string, body []byte) error {
		var event library.Event
		if err := json.Unmarshal(body, &event); err != nil {
			log.Error("无法解码事件，已丢弃", "routing_key", routingKey, "error", err)
			return nil
		}
		if event.Type != routingKey {
			log.Warn("事件类型与routing key不一致", "type", event.Type, "routing_key", routingKey)
		}

		kv := []interface{}{
			"type", event.Type,
			"author_id", event.AuthorID.String(),
			"occurred_at", event.OccurredAt,
		}
		if event.CourseID != nil {
			kv = append(kv, "course_id", event.CourseID.String())
		}
		log.Info("收到生命周期事件", kv...)
		return nil
	}
}
