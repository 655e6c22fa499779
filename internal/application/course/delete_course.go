package course

import (
	"context"

	"github.com/google/uuid"

	"github.com/xiebiao/courselibrary/internal/application"
	"github.com/xiebiao/courselibrary/internal/domain/library"
	"github.com/xiebiao/courselibrary/pkg/logger"
	"github.com/xiebiao/courselibrary/pkg/metrics"
)

// DeleteCourseUseCase 删除课程
type DeleteCourseUseCase struct {
	repos     library.RepositoryFactory
	publisher library.EventPublisher
	log       *logger.Logger
}

// NewDeleteCourseUseCase 创建删除用例
func NewDeleteCourseUseCase(repos library.RepositoryFactory, publisher library.EventPublisher, log *logger.Logger) *DeleteCourseUseCase {
	return &DeleteCourseUseCase{repos: repos, publisher: publisher, log: log}
}

// Execute 删除课程并返回被删除的课程
func (uc *DeleteCourseUseCase) Execute(ctx context.Context, authorID, courseID uuid.UUID) (*library.Course, error) {
	repo := uc.repos.New()
	defer repo.Close()

	if err := ensureAuthor(ctx, repo, authorID); err != nil {
		return nil, err
	}
	c, err := loadCourse(ctx, repo, authorID, courseID)
	if err != nil {
		return nil, err
	}

	if err := repo.DeleteCourse(c); err != nil {
		return nil, err
	}
	if err := commit(ctx, repo); err != nil {
		return nil, err
	}

	uc.log.Info("课程已删除", "author_id", authorID.String(), "course_id", courseID.String())
	metrics.RecordChange(metrics.ResourceCourse, metrics.ActionDeleted)
	application.Publish(ctx, uc.publisher, uc.log, library.NewCourseEvent(library.EventCourseDeleted, c))
	return c, nil
}
