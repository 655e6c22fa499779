package course

import (
	"context"

	"github.com/google/uuid"

	"github.com/xiebiao/courselibrary/internal/application"
	"github.com/xiebiao/courselibrary/internal/domain/library"
	"github.com/xiebiao/courselibrary/pkg/logger"
	"github.com/xiebiao/courselibrary/pkg/metrics"
)

// CreateCourseUseCase 为作者创建课程
type CreateCourseUseCase struct {
	repos     library.RepositoryFactory
	publisher library.EventPublisher
	log       *logger.Logger
}

// NewCreateCourseUseCase 创建课程用例
func NewCreateCourseUseCase(repos library.RepositoryFactory, publisher library.EventPublisher, log *logger.Logger) *CreateCourseUseCase {
	return &CreateCourseUseCase{repos: repos, publisher: publisher, log: log}
}

// Execute 创建课程
// course已通过校验;AuthorID以authorID为准,ID由仓储生成
func (uc *CreateCourseUseCase) Execute(ctx context.Context, authorID uuid.UUID, course *library.Course) (*library.Course, error) {
	repo := uc.repos.New()
	defer repo.Close()

	if err := ensureAuthor(ctx, repo, authorID); err != nil {
		return nil, err
	}

	course.ID = uuid.Nil
	if err := repo.AddCourse(authorID, course); err != nil {
		return nil, err
	}
	if err := commit(ctx, repo); err != nil {
		return nil, err
	}

	uc.log.Info("课程已创建", "author_id", authorID.String(), "course_id", course.ID.String())
	metrics.RecordChange(metrics.ResourceCourse, metrics.ActionCreated)
	application.Publish(ctx, uc.publisher, uc.log, library.NewCourseEvent(library.EventCourseCreated, course))
	return course, nil
}

// commit 提交工作单元,未命中记录时返回ErrNoEffect
func commit(ctx context.Context, repo library.Repository) error {
	ok, err := repo.Save(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return library.ErrNoEffect
	}
	return nil
}
