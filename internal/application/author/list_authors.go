// Package author 作者用例
package author

import (
	"context"

	"github.com/google/uuid"

	"github.com/xiebiao/courselibrary/internal/domain/library"
)

// ListAuthorsUseCase 作者列表(支持过滤、搜索、排序)
type ListAuthorsUseCase struct {
	repos library.RepositoryFactory
}

// NewListAuthorsUseCase 创建作者列表用例
func NewListAuthorsUseCase(repos library.RepositoryFactory) *ListAuthorsUseCase {
	return &ListAuthorsUseCase{repos: repos}
}

// Execute filter为nil时返回全部作者
func (uc *ListAuthorsUseCase) Execute(ctx context.Context, filter *library.AuthorsFilter) ([]*library.Author, error) {
	repo := uc.repos.New()
	defer repo.Close()

	if filter == nil {
		return repo.GetAuthors(ctx)
	}
	return repo.FindAuthors(ctx, filter)
}

// GetAuthorUseCase 查询单个作者
type GetAuthorUseCase struct {
	repos library.RepositoryFactory
}

// NewGetAuthorUseCase 创建作者详情用例
func NewGetAuthorUseCase(repos library.RepositoryFactory) *GetAuthorUseCase {
	return &GetAuthorUseCase{repos: repos}
}

// Execute 作者不存在时返回ErrAuthorNotFound
func (uc *GetAuthorUseCase) Execute(ctx context.Context, authorID uuid.UUID) (*library.Author, error) {
	repo := uc.repos.New()
	defer repo.Close()

	return loadAuthor(ctx, repo, authorID)
}

// GetAuthorCollectionUseCase 按ID批量查询作者
type GetAuthorCollectionUseCase struct {
	repos library.RepositoryFactory
}

// NewGetAuthorCollectionUseCase 创建批量查询用例
func NewGetAuthorCollectionUseCase(repos library.RepositoryFactory) *GetAuthorCollectionUseCase {
	return &GetAuthorCollectionUseCase{repos: repos}
}

// Execute 找到的作者数少于请求的ID数时返回ErrAuthorNotFound
// 结果按请求中ID的顺序排列
func (uc *GetAuthorCollectionUseCase) Execute(ctx context.Context, ids []uuid.UUID) ([]*library.Author, error) {
	if ids == nil {
		return nil, library.InvalidArgument("ids")
	}

	repo := uc.repos.New()
	defer repo.Close()

	authors, err := repo.GetAuthorsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(authors) != len(ids) {
		return nil, library.ErrAuthorNotFound
	}

	byID := make(map[uuid.UUID]*library.Author, len(authors))
	for _, a := range authors {
		byID[a.ID] = a
	}
	ordered := make([]*library.Author, 0, len(ids))
	for _, id := range ids {
		ordered = append(ordered, byID[id])
	}
	return ordered, nil
}

func loadAuthor(ctx context.Context, repo library.Repository, authorID uuid.UUID) (*library.Author, error) {
	a, err := repo.GetAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, library.ErrAuthorNotFound
	}
	return a, nil
}
