package library

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// 事件类型(同时作为RabbitMQ的routing key)
const (
	EventAuthorCreated = "author.created"
	EventAuthorDeleted = "author.deleted"
	EventCourseCreated = "course.created"
	EventCourseUpdated = "course.updated"
	EventCourseDeleted = "course.deleted"
)

// Event 作者/课程生命周期事件,在Save成功之后发布
type Event struct {
	Type       string     `json:"type"`
	AuthorID   uuid.UUID  `json:"authorId"`
	CourseID   *uuid.UUID `json:"courseId,omitempty"`
	OccurredAt time.Time  `json:"occurredAt"`
}

// NewAuthorEvent 作者事件
func NewAuthorEvent(eventType string, authorID uuid.UUID) Event {
	return Event{Type: eventType, AuthorID: authorID, OccurredAt: time.Now().UTC()}
}

// NewCourseEvent 课程事件
func NewCourseEvent(eventType string, course *Course) Event {
	id := course.ID
	return Event{Type: eventType, AuthorID: course.AuthorID, CourseID: &id, OccurredAt: time.Now().UTC()}
}

// EventPublisher 事件发布者
// 发布失败只记录日志,不影响已提交的写操作
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}
