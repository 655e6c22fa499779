// Package application 用例层公共逻辑
package application

import (
	"context"

	"github.com/xiebiao/courselibrary/internal/domain/library"
	"github.com/xiebiao/courselibrary/pkg/logger"
)

// Publish 在Save成功之后发布事件
// 发布失败只记录日志,写操作已经提交,不影响请求结果
func Publish(ctx context.Context, publisher library.EventPublisher, log *logger.Logger, events ...library.Event) {
	for _, event := range events {
		if err := publisher.Publish(ctx, event); err != nil {
			log.Warn("事件发布失败", "type", event.Type, "author_id", event.AuthorID.String(), "error", err)
		}
	}
}
