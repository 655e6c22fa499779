// Package course 课程用例
// 每个用例从RepositoryFactory打开一个工作单元,用完即关闭;
// 写操作只在Save成功之后发布事件、记录指标
package course

import (
	"context"

	"github.com/google/uuid"

	"github.com/xiebiao/courselibrary/internal/domain/library"
)

// ListCoursesUseCase 查询作者的课程列表
type ListCoursesUseCase struct {
	repos library.RepositoryFactory
}

// NewListCoursesUseCase 创建课程列表用例
func NewListCoursesUseCase(repos library.RepositoryFactory) *ListCoursesUseCase {
	return &ListCoursesUseCase{repos: repos}
}

// Execute 返回按标题升序排列的课程,作者不存在时返回ErrAuthorNotFound
func (uc *ListCoursesUseCase) Execute(ctx context.Context, authorID uuid.UUID) ([]*library.Course, error) {
	repo := uc.repos.New()
	defer repo.Close()

	if err := ensureAuthor(ctx, repo, authorID); err != nil {
		return nil, err
	}
	return repo.GetCourses(ctx, authorID)
}

// GetCourseUseCase 查询单个课程
type GetCourseUseCase struct {
	repos library.RepositoryFactory
}

// NewGetCourseUseCase 创建课程详情用例
func NewGetCourseUseCase(repos library.RepositoryFactory) *GetCourseUseCase {
	return &GetCourseUseCase{repos: repos}
}

// Execute 作者或课程不存在时返回对应的NotFound错误
func (uc *GetCourseUseCase) Execute(ctx context.Context, authorID, courseID uuid.UUID) (*library.Course, error) {
	repo := uc.repos.New()
	defer repo.Close()

	if err := ensureAuthor(ctx, repo, authorID); err != nil {
		return nil, err
	}
	return loadCourse(ctx, repo, authorID, courseID)
}

func ensureAuthor(ctx context.Context, repo library.Repository, authorID uuid.UUID) error {
	exists, err := repo.AuthorExists(ctx, authorID)
	if err != nil {
		return err
	}
	if !exists {
		return library.ErrAuthorNotFound
	}
	return nil
}

func loadCourse(ctx context.Context, repo library.Repository, authorID, courseID uuid.UUID) (*library.Course, error) {
	c, err := repo.GetCourse(ctx, authorID, courseID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, library.ErrCourseNotFound
	}
	return c, nil
}
