package author

import (
	"context"

	"github.com/google/uuid"

	"github.com/xiebiao/courselibrary/internal/application"
	"github.com/xiebiao/courselibrary/internal/domain/library"
	"github.com/xiebiao/courselibrary/pkg/logger"
	"github.com/xiebiao/courselibrary/pkg/metrics"
)

// CreateAuthorsUseCase 创建一个或多个作者(连同课程),全部在一次提交中生效
type CreateAuthorsUseCase struct {
	repos     library.RepositoryFactory
	publisher library.EventPublisher
	log       *logger.Logger
}

// NewCreateAuthorsUseCase 创建作者用例
func NewCreateAuthorsUseCase(repos library.RepositoryFactory, publisher library.EventPublisher, log *logger.Logger) *CreateAuthorsUseCase {
	return &CreateAuthorsUseCase{repos: repos, publisher: publisher, log: log}
}

// Execute 作者及课程的ID由仓储生成
func (uc *CreateAuthorsUseCase) Execute(ctx context.Context, authors ...*library.Author) ([]*library.Author, error) {
	repo := uc.repos.New()
	defer repo.Close()

	for _, a := range authors {
		if err := repo.AddAuthor(a); err != nil {
			return nil, err
		}
	}
	ok, err := repo.Save(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, library.ErrNoEffect
	}

	events := make([]library.Event, 0, len(authors))
	for _, a := range authors {
		uc.log.Info("作者已创建", "author_id", a.ID.String(), "courses", len(a.Courses))
		metrics.RecordChange(metrics.ResourceAuthor, metrics.ActionCreated)
		events = append(events, library.NewAuthorEvent(library.EventAuthorCreated, a.ID))
		for i := range a.Courses {
			metrics.RecordChange(metrics.ResourceCourse, metrics.ActionCreated)
			events = append(events, library.NewCourseEvent(library.EventCourseCreated, &a.Courses[i]))
		}
	}
	application.Publish(ctx, uc.publisher, uc.log, events...)
	return authors, nil
}

// DeleteAuthorUseCase 删除作者及其全部课程
type DeleteAuthorUseCase struct {
	repos     library.RepositoryFactory
	publisher library.EventPublisher
	log       *logger.Logger
}

// NewDeleteAuthorUseCase 创建删除作者用例
func NewDeleteAuthorUseCase(repos library.RepositoryFactory, publisher library.EventPublisher, log *logger.Logger) *DeleteAuthorUseCase {
	return &DeleteAuthorUseCase{repos: repos, publisher: publisher, log: log}
}

// Execute 作者不存在时返回ErrAuthorNotFound
func (uc *DeleteAuthorUseCase) Execute(ctx context.Context, authorID uuid.UUID) error {
	repo := uc.repos.New()
	defer repo.Close()

	a, err := loadAuthor(ctx, repo, authorID)
	if err != nil {
		return err
	}
	if err := repo.DeleteAuthor(a); err != nil {
		return err
	}
	ok, err := repo.Save(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return library.ErrNoEffect
	}

	uc.log.Info("作者已删除", "author_id", authorID.String())
	metrics.RecordChange(metrics.ResourceAuthor, metrics.ActionDeleted)
	application.Publish(ctx, uc.publisher, uc.log, library.NewAuthorEvent(library.EventAuthorDeleted, authorID))
	return nil
}
