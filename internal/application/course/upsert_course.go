package course

import (
	"context"

	"github.com/google/uuid"

	"github.com/xiebiao/courselibrary/internal/application"
	"github.com/xiebiao/courselibrary/internal/domain/library"
	"github.com/xiebiao/courselibrary/pkg/logger"
	"github.com/xiebiao/courselibrary/pkg/metrics"
)

// UpsertResult PUT/PATCH的结果
// Created为true表示课程原本不存在,按URL中的ID新建
type UpsertResult struct {
	Course  *library.Course
	Created bool
}

// ReplaceCourseUseCase 整体替换课程(PUT),课程不存在时新建
type ReplaceCourseUseCase struct {
	repos     library.RepositoryFactory
	publisher library.EventPublisher
	log       *logger.Logger
}

// NewReplaceCourseUseCase 创建替换用例
func NewReplaceCourseUseCase(repos library.RepositoryFactory, publisher library.EventPublisher, log *logger.Logger) *ReplaceCourseUseCase {
	return &ReplaceCourseUseCase{repos: repos, publisher: publisher, log: log}
}

// Execute 用payload的可修改字段替换课程
func (uc *ReplaceCourseUseCase) Execute(ctx context.Context, authorID, courseID uuid.UUID, payload *library.Course) (*UpsertResult, error) {
	repo := uc.repos.New()
	defer repo.Close()

	if err := ensureAuthor(ctx, repo, authorID); err != nil {
		return nil, err
	}

	existing, err := repo.GetCourse(ctx, authorID, courseID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		created := library.NewCourse(payload.Title, payload.Description)
		created.ID = courseID
		created.AuthorID = authorID
		return stageUpsert(ctx, repo, uc.publisher, uc.log, created, true)
	}

	existing.Apply(payload.Title, payload.Description)
	return stageUpsert(ctx, repo, uc.publisher, uc.log, existing, false)
}

// CourseMutator 计算补丁应用后的课程
// current为nil表示课程不存在;返回的错误(如校验失败)由用例原样返回,此时不会写入任何数据
type CourseMutator func(current *library.Course) (*library.Course, error)

// PatchCourseUseCase 局部更新课程(PATCH),课程不存在时按补丁结果新建
type PatchCourseUseCase struct {
	repos     library.RepositoryFactory
	publisher library.EventPublisher
	log       *logger.Logger
}

// NewPatchCourseUseCase 创建局部更新用例
func NewPatchCourseUseCase(repos library.RepositoryFactory, publisher library.EventPublisher, log *logger.Logger) *PatchCourseUseCase {
	return &PatchCourseUseCase{repos: repos, publisher: publisher, log: log}
}

// Execute 加载课程,交给mutate计算结果后提交
// 结果的ID与AuthorID始终以URL为准
func (uc *PatchCourseUseCase) Execute(ctx context.Context, authorID, courseID uuid.UUID, mutate CourseMutator) (*UpsertResult, error) {
	repo := uc.repos.New()
	defer repo.Close()

	if err := ensureAuthor(ctx, repo, authorID); err != nil {
		return nil, err
	}

	existing, err := repo.GetCourse(ctx, authorID, courseID)
	if err != nil {
		return nil, err
	}

	var current *library.Course
	if existing != nil {
		snapshot := *existing
		current = &snapshot
	}

	patched, err := mutate(current)
	if err != nil {
		return nil, err
	}
	if patched == nil {
		return nil, library.InvalidArgument("patched")
	}

	patched.ID = courseID
	patched.AuthorID = authorID
	return stageUpsert(ctx, repo, uc.publisher, uc.log, patched, existing == nil)
}

// stageUpsert 暂存插入或更新并提交,c.AuthorID必须已设置
func stageUpsert(ctx context.Context, repo library.Repository, publisher library.EventPublisher, log *logger.Logger, c *library.Course, create bool) (*UpsertResult, error) {
	action, eventType := metrics.ActionUpdated, library.EventCourseUpdated
	if create {
		action, eventType = metrics.ActionCreated, library.EventCourseCreated
	}

	var err error
	if create {
		err = repo.AddCourse(c.AuthorID, c)
	} else {
		err = repo.UpdateCourse(c)
	}
	if err != nil {
		return nil, err
	}
	if err := commit(ctx, repo); err != nil {
		return nil, err
	}

	log.Info("课程已保存", "author_id", c.AuthorID.String(), "course_id", c.ID.String(), "action", action)
	metrics.RecordChange(metrics.ResourceCourse, action)
	application.Publish(ctx, publisher, log, library.NewCourseEvent(eventType, c))
	return &UpsertResult{Course: c, Created: create}, nil
}
