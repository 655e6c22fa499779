package main

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/xiebiao/courselibrary/internal/domain/library"
	"github.com/xiebiao/courselibrary/pkg/logger"
)

func newObservedLogger() (*logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return &logger.Logger{SugaredLogger: zap.New(core).Sugar()}, logs
}

func TestEventHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("课程事件带course_id", func(t *testing.T) {
		log, logs := newObservedLogger()
		course := &library.Course{ID: uuid.New(), AuthorID: uuid.New()}
		body, err := json.Marshal(library.NewCourseEvent(library.EventCourseCreated, course))
		require.NoError(t, err)

		require.NoError(t, newEventHandler(log)(ctx, library.EventCourseCreated, body))
		require.Equal(t, 1, logs.Len())
		fields := logs.All()[0].ContextMap()
		assert.Equal(t, library.EventCourseCreated, fields["type"])
		assert.Equal(t, course.ID.String(), fields["course_id"])
		assert.Equal(t, course.AuthorID.String(), fields["author_id"])
	})

	t.Run("作者事件没有course_id", func(t *testing.T) {
		log, logs := newObservedLogger()
		body, err := json.Marshal(library.NewAuthorEvent(library.EventAuthorDeleted, uuid.New()))
		require.NoError(t, err)

		require.NoError(t, newEventHandler(log)(ctx, library.EventAuthorDeleted, body))
		require.Equal(t, 1, logs.Len())
		assert.NotContains(t, logs.All()[0].ContextMap(), "course_id")
	})

	t.Run("无法解码的消息被丢弃", func(t *testing.T) {
		log, logs := newObservedLogger()
		assert.NoError(t, newEventHandler(log)(ctx, library.EventCourseUpdated, []byte("not json")))
		assert.Equal(t, 1, logs.FilterMessage("无法解码事件，已丢弃").Len())
	})

	t.Run("类型与routing key不一致时告警", func(t *testing.T) {
		log, logs := newObservedLogger()
		body, err := json.Marshal(library.NewAuthorEvent(library.EventAuthorCreated, uuid.New()))
		require.NoError(t, err)
		assert.NoError(t, newEventHandler(log)(ctx, library.EventAuthorDeleted, body))
		assert.Equal(t, 1, logs.FilterMessage("事件类型与routing key不一致").Len())
		assert.Equal(t, 1, logs.FilterMessage("收到生命周期事件").Len())
	})
}
