package library

import (
	"context"

	"github.com/google/uuid"
)

// Repository 作者/课程仓储(工作单元)
// 设计说明:
// 1. 一个Repository实例对应一次请求,由RepositoryFactory创建,用完调用Close
// 2. 读操作返回实体快照,修改快照不会被隐式持久化
// 3. Add/Update/Delete只暂存操作,调用Save后才在一个事务中生效
// 4. 参数为零值ID或nil时返回ErrInvalidArgument(调用方编程错误)
type Repository interface {
	// AuthorExists 作者是否存在
	AuthorExists(ctx context.Context, authorID uuid.UUID) (bool, error)

	// GetAuthor 查询作者,不存在时返回nil, nil
	GetAuthor(ctx context.Context, authorID uuid.UUID) (*Author, error)

	// GetAuthors 查询全部作者(存储默认顺序)
	GetAuthors(ctx context.Context) ([]*Author, error)

	// FindAuthors 按条件查询作者,filter为nil时返回ErrInvalidArgument
	// 排序属性未知时返回ErrInvalidOrderBy
	FindAuthors(ctx context.Context, filter *AuthorsFilter) ([]*Author, error)

	// GetAuthorsByIDs 批量查询作者,ids为nil时返回ErrInvalidArgument
	GetAuthorsByIDs(ctx context.Context, ids []uuid.UUID) ([]*Author, error)

	// AddAuthor 为作者及其课程分配ID并暂存插入
	AddAuthor(author *Author) error

	// DeleteAuthor 暂存删除(级联删除课程)
	DeleteAuthor(author *Author) error

	// GetCourse 查询作者名下的课程,两个ID都必须匹配,不存在时返回nil, nil
	GetCourse(ctx context.Context, authorID, courseID uuid.UUID) (*Course, error)

	// GetCourses 查询作者的全部课程,按Title升序
	GetCourses(ctx context.Context, authorID uuid.UUID) ([]*Course, error)

	// AddCourse 强制设置AuthorID,ID为零值时分配新ID,暂存插入
	AddCourse(authorID uuid.UUID, course *Course) error

	// UpdateCourse 暂存全字段更新
	// 前置条件:调用方刚刚通过GetCourse加载过该课程
	UpdateCourse(course *Course) error

	// DeleteCourse 暂存删除
	DeleteCourse(course *Course) error

	// Save 在一个事务中执行全部暂存操作
	// 任一更新/删除未命中记录时回滚并返回false, nil;存储错误以ErrDatabaseError返回
	// 无论结果如何,暂存列表都会被清空
	Save(ctx context.Context) (bool, error)

	// Close 丢弃未提交的暂存操作
	Close()
}

// RepositoryFactory 为每个工作单元创建新的Repository
type RepositoryFactory interface {
	New() Repository
}
