package mysql

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/courselibrary/internal/domain/library"
	apperrors "github.com/xiebiao/courselibrary/pkg/errors"
	"github.com/xiebiao/courselibrary/pkg/logger"
	"github.com/xiebiao/courselibrary/pkg/metrics"
	"github.com/xiebiao/courselibrary/pkg/tracing"
)

// errNoEffect 事务内的更新/删除未命中记录，触发回滚
var errNoEffect = errors.New("staged operation affected no rows")

// repositoryFactory 为每个请求创建独立的工作单元
type repositoryFactory struct {
	db     *gorm.DB
	log    *logger.Logger
	policy RetryPolicy
}

// NewRepositoryFactory 创建仓储工厂
func NewRepositoryFactory(db *gorm.DB, log *logger.Logger, policy RetryPolicy) library.RepositoryFactory {
	return &repositoryFactory{db: db, log: log, policy: policy}
}

// New 创建新的工作单元
func (f *repositoryFactory) New() library.Repository {
	return &libraryRepository{db: f.db, log: f.log, policy: f.policy}
}

// operation 暂存的写操作
type operation struct {
	name string
	// mustAffect 为true时未命中记录即视为无效提交
	mustAffect bool
	exec       func(tx *gorm.DB) (int64, error)
}

// libraryRepository 作者/课程仓储实现
// 设计说明:
// 1. 读操作直接查询并转换为领域实体(快照)，不做变更跟踪
// 2. 写操作在调用时对实体做快照并暂存，Save时在一个事务中依次执行
// 3. 非并发安全：一个实例只属于一个请求
type libraryRepository struct {
	db      *gorm.DB
	log     *logger.Logger
	policy  RetryPolicy
	pending []operation
}

func (r *libraryRepository) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := tracing.StartSpan(ctx, "LibraryRepository."+name)
	span.SetAttributes(attrs...)
	return ctx, span
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// AuthorExists 作者是否存在
func (r *libraryRepository) AuthorExists(ctx context.Context, authorID uuid.UUID) (exists bool, err error) {
	if authorID == uuid.Nil {
		return false, library.InvalidArgument("authorID")
	}
	ctx, span := r.startSpan(ctx, "AuthorExists", attribute.String("author.id", authorID.String()))
	defer func() { endSpan(span, err) }()

	var count int64
	if err := r.db.WithContext(ctx).Model(&AuthorModel{}).Where("id = ?", authorID).Count(&count).Error; err != nil {
		return false, apperrors.WrapDB(err, "查询作者失败")
	}
	return count > 0, nil
}

// GetAuthor 查询作者，不存在时返回nil, nil
func (r *libraryRepository) GetAuthor(ctx context.Context, authorID uuid.UUID) (author *library.Author, err error) {
	if authorID == uuid.Nil {
		return nil, library.InvalidArgument("authorID")
	}
	ctx, span := r.startSpan(ctx, "GetAuthor", attribute.String("author.id", authorID.String()))
	defer func() { endSpan(span, err) }()

	var model AuthorModel
	err = r.db.WithContext(ctx).Where("id = ?", authorID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.WrapDB(err, "查询作者失败")
	}
	return toAuthorEntity(&model), nil
}

// GetAuthors 查询全部作者
func (r *libraryRepository) GetAuthors(ctx context.Context) (authors []*library.Author, err error) {
	ctx, span := r.startSpan(ctx, "GetAuthors")
	defer func() { endSpan(span, err) }()

	var models []AuthorModel
	if err := r.db.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, apperrors.WrapDB(err, "查询作者列表失败")
	}
	return toAuthorEntities(models), nil
}

// FindAuthors 按条件查询作者
// MainCategory精确匹配，SearchQuery在主要领域/名/姓中模糊匹配，两者同时存在时取交集
func (r *libraryRepository) FindAuthors(ctx context.Context, filter *library.AuthorsFilter) (authors []*library.Author, err error) {
	if filter == nil {
		return nil, library.InvalidArgument("filter")
	}
	f := filter.Normalize()

	ctx, span := r.startSpan(ctx, "FindAuthors",
		attribute.String("filter.main_category", f.MainCategory),
		attribute.String("filter.search_query", f.SearchQuery),
		attribute.String("filter.order_by", f.OrderBy),
	)
	defer func() { endSpan(span, err) }()

	order, err := authorOrderBy(f.OrderBy)
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).Model(&AuthorModel{})
	if f.MainCategory != "" {
		query = query.Where("main_category = ?", f.MainCategory)
	}
	if f.SearchQuery != "" {
		like := "%" + f.SearchQuery + "%"
		query = query.Where("(main_category LIKE ? OR first_name LIKE ? OR last_name LIKE ?)", like, like, like)
	}
	if len(order) > 0 {
		query = query.Order(clause.OrderBy{Columns: order})
	}

	var models []AuthorModel
	if err := query.Find(&models).Error; err != nil {
		return nil, apperrors.WrapDB(err, "查询作者列表失败")
	}
	return toAuthorEntities(models), nil
}

// authorSortMapping DTO属性 → 数据库列
// age按出生日期排序且方向相反(年龄越大出生越早)
var authorSortMapping = map[string]struct {
	columns []string
	revert  bool
}{
	"id":           {columns: []string{"id"}},
	"name":         {columns: []string{"first_name", "last_name"}},
	"age":          {columns: []string{"date_of_birth"}, revert: true},
	"maincategory": {columns: []string{"main_category"}},
}

func authorOrderBy(orderBy string) ([]clause.OrderByColumn, error) {
	var columns []clause.OrderByColumn
	for _, field := range library.ParseOrderBy(orderBy) {
		mapping, ok := authorSortMapping[strings.ToLower(field.Property)]
		if !ok {
			return nil, library.ErrInvalidOrderBy.WithCause(errors.New("unknown property " + field.Property))
		}
		desc := field.Descending
		if mapping.revert {
			desc = !desc
		}
		for _, col := range mapping.columns {
			columns = append(columns, clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: desc})
		}
	}
	return columns, nil
}

// GetAuthorsByIDs 批量查询作者，ids为空切片时返回空结果
func (r *libraryRepository) GetAuthorsByIDs(ctx context.Context, ids []uuid.UUID) (authors []*library.Author, err error) {
	if ids == nil {
		return nil, library.InvalidArgument("ids")
	}
	if len(ids) == 0 {
		return []*library.Author{}, nil
	}
	ctx, span := r.startSpan(ctx, "GetAuthorsByIDs", attribute.Int("ids.count", len(ids)))
	defer func() { endSpan(span, err) }()

	var models []AuthorModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, apperrors.WrapDB(err, "查询作者列表失败")
	}
	return toAuthorEntities(models), nil
}

// AddAuthor 为作者及其课程分配ID并暂存插入
func (r *libraryRepository) AddAuthor(author *library.Author) error {
	if author == nil {
		return library.InvalidArgument("author")
	}

	author.ID = uuid.New()
	for i := range author.Courses {
		author.Courses[i].ID = uuid.New()
		author.Courses[i].AuthorID = author.ID
	}

	model := toAuthorModel(author)
	courses := model.Courses
	model.Courses = nil

	r.stage(operation{
		name: "insert author " + author.ID.String(),
		exec: func(tx *gorm.DB) (int64, error) {
			res := tx.Omit(clause.Associations).Create(model)
			if res.Error != nil || len(courses) == 0 {
				return res.RowsAffected, res.Error
			}
			courseRes := tx.Create(&courses)
			return res.RowsAffected + courseRes.RowsAffected, courseRes.Error
		},
	})
	return nil
}

// DeleteAuthor 暂存删除，课程随作者一起删除
func (r *libraryRepository) DeleteAuthor(author *library.Author) error {
	if author == nil {
		return library.InvalidArgument("author")
	}
	id := author.ID

	r.stage(operation{
		name:       "delete author " + id.String(),
		mustAffect: true,
		exec: func(tx *gorm.DB) (int64, error) {
			if err := tx.Where("author_id = ?", id).Delete(&CourseModel{}).Error; err != nil {
				return 0, err
			}
			res := tx.Where("id = ?", id).Delete(&AuthorModel{})
			return res.RowsAffected, res.Error
		},
	})
	return nil
}

// GetCourse 查询作者名下的课程
func (r *libraryRepository) GetCourse(ctx context.Context, authorID, courseID uuid.UUID) (course *library.Course, err error) {
	if authorID == uuid.Nil {
		return nil, library.InvalidArgument("authorID")
	}
	if courseID == uuid.Nil {
		return nil, library.InvalidArgument("courseID")
	}
	ctx, span := r.startSpan(ctx, "GetCourse",
		attribute.String("author.id", authorID.String()),
		attribute.String("course.id", courseID.String()),
	)
	defer func() { endSpan(span, err) }()

	var model CourseModel
	err = r.db.WithContext(ctx).Where("id = ? AND author_id = ?", courseID, authorID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.WrapDB(err, "查询课程失败")
	}
	return toCourseEntity(&model), nil
}

// GetCourses 查询作者的全部课程，按标题升序
func (r *libraryRepository) GetCourses(ctx context.Context, authorID uuid.UUID) (courses []*library.Course, err error) {
	if authorID == uuid.Nil {
		return nil, library.InvalidArgument("authorID")
	}
	ctx, span := r.startSpan(ctx, "GetCourses", attribute.String("author.id", authorID.String()))
	defer func() { endSpan(span, err) }()

	var models []CourseModel
	if err := r.db.WithContext(ctx).Where("author_id = ?", authorID).Order("title ASC").Find(&models).Error; err != nil {
		return nil, apperrors.WrapDB(err, "查询课程列表失败")
	}
	return toCourseEntities(models), nil
}

// AddCourse 强制设置AuthorID，ID为零值时分配新ID
func (r *libraryRepository) AddCourse(authorID uuid.UUID, course *library.Course) error {
	if authorID == uuid.Nil {
		return library.InvalidArgument("authorID")
	}
	if course == nil {
		return library.InvalidArgument("course")
	}

	course.AuthorID = authorID
	if course.ID == uuid.Nil {
		course.ID = uuid.New()
	}

	model := toCourseModel(course)
	r.stage(operation{
		name: "insert course " + course.ID.String(),
		exec: func(tx *gorm.DB) (int64, error) {
			res := tx.Create(model)
			return res.RowsAffected, res.Error
		},
	})
	return nil
}

// UpdateCourse 暂存全字段更新
func (r *libraryRepository) UpdateCourse(course *library.Course) error {
	if course == nil {
		return library.InvalidArgument("course")
	}
	if course.ID == uuid.Nil || course.AuthorID == uuid.Nil {
		return library.InvalidArgument("course.ID")
	}

	model := toCourseModel(course)
	r.stage(operation{
		name:       "update course " + course.ID.String(),
		mustAffect: true,
		exec: func(tx *gorm.DB) (int64, error) {
			res := tx.Model(&CourseModel{}).
				Where("id = ? AND author_id = ?", model.ID, model.AuthorID).
				Updates(map[string]interface{}{
					"title":       model.Title,
					"description": model.Description,
				})
			if res.Error != nil || res.RowsAffected > 0 {
				return res.RowsAffected, res.Error
			}
			// MySQL默认只统计实际变化的行，值未变时需要确认记录仍存在
			var count int64
			err := tx.Model(&CourseModel{}).Where("id = ? AND author_id = ?", model.ID, model.AuthorID).Count(&count).Error
			return count, err
		},
	})
	return nil
}

// DeleteCourse 暂存删除
func (r *libraryRepository) DeleteCourse(course *library.Course) error {
	if course == nil {
		return library.InvalidArgument("course")
	}
	id, authorID := course.ID, course.AuthorID

	r.stage(operation{
		name:       "delete course " + id.String(),
		mustAffect: true,
		exec: func(tx *gorm.DB) (int64, error) {
			res := tx.Where("id = ? AND author_id = ?", id, authorID).Delete(&CourseModel{})
			return res.RowsAffected, res.Error
		},
	})
	return nil
}

func (r *libraryRepository) stage(op operation) {
	r.pending = append(r.pending, op)
}

// Save 在一个事务中执行全部暂存操作
func (r *libraryRepository) Save(ctx context.Context) (saved bool, err error) {
	ops := r.pending
	r.pending = nil

	ctx, span := r.startSpan(ctx, "Save", attribute.Int("operations", len(ops)))
	defer func() { endSpan(span, err) }()

	start := time.Now()
	err = r.policy.Do(ctx, func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			for _, op := range ops {
				affected, err := op.exec(tx)
				if err != nil {
					return err
				}
				if op.mustAffect && affected == 0 {
					r.log.Warn("暂存操作未命中记录，回滚事务", "operation", op.name)
					return errNoEffect
				}
			}
			return nil
		})
	})
	elapsed := time.Since(start).Seconds()

	switch {
	case errors.Is(err, errNoEffect):
		metrics.RecordSave("no_effect", elapsed)
		return false, nil
	case err != nil:
		metrics.RecordSave("error", elapsed)
		if isDuplicateError(err) {
			r.log.Warn("保存时主键或唯一键冲突", "error", err)
		}
		return false, apperrors.WrapDB(err, "保存数据失败")
	}

	metrics.RecordSave("success", elapsed)
	return true, nil
}

// Close 丢弃未提交的暂存操作
func (r *libraryRepository) Close() {
	if len(r.pending) > 0 {
		r.log.Warn("丢弃未提交的暂存操作", "count", len(r.pending))
	}
	r.pending = nil
}
