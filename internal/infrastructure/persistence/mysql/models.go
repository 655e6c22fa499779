package mysql

import (
	"time"

	"github.com/google/uuid"

	"github.com/xiebiao/courselibrary/internal/domain/library"
)

// AuthorModel GORM作者模型
// 设计说明:
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. domain/library/entity.go是领域实体，不依赖GORM
// 3. 仓储负责两者之间的转换(toAuthorModel / toAuthorEntity)
type AuthorModel struct {
	ID           uuid.UUID     `gorm:"type:char(36);primaryKey"`
	FirstName    string        `gorm:"index:idx_author_name;size:50;not null;comment:名"`
	LastName     string        `gorm:"index:idx_author_name;size:50;not null;comment:姓"`
	DateOfBirth  time.Time     `gorm:"not null;comment:出生日期"`
	DateOfDeath  *time.Time    `gorm:"comment:去世日期"`
	MainCategory string        `gorm:"index;size:50;not null;comment:主要领域"`
	Courses      []CourseModel `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time     `gorm:"comment:创建时间"`
	UpdatedAt    time.Time     `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (AuthorModel) TableName() string {
	return "authors"
}

// CourseModel GORM课程模型
// (author_id, title)复合索引服务于按作者查询并按标题排序
type CourseModel struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey"`
	AuthorID    uuid.UUID `gorm:"type:char(36);index:idx_course_author_title,priority:1;not null;comment:作者ID"`
	Title       string    `gorm:"index:idx_course_author_title,priority:2;size:100;not null;comment:标题"`
	Description string    `gorm:"size:1500;comment:描述"`
	CreatedAt   time.Time `gorm:"comment:创建时间"`
	UpdatedAt   time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (CourseModel) TableName() string {
	return "courses"
}

func toAuthorModel(a *library.Author) *AuthorModel {
	m := &AuthorModel{
		ID:           a.ID,
		FirstName:    a.FirstName,
		LastName:     a.LastName,
		DateOfBirth:  a.DateOfBirth,
		DateOfDeath:  copyTime(a.DateOfDeath),
		MainCategory: a.MainCategory,
	}
	if len(a.Courses) > 0 {
		m.Courses = make([]CourseModel, len(a.Courses))
		for i := range a.Courses {
			m.Courses[i] = *toCourseModel(&a.Courses[i])
		}
	}
	return m
}

func toAuthorEntity(m *AuthorModel) *library.Author {
	a := &library.Author{
		ID:           m.ID,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		DateOfBirth:  m.DateOfBirth,
		DateOfDeath:  copyTime(m.DateOfDeath),
		MainCategory: m.MainCategory,
	}
	if len(m.Courses) > 0 {
		a.Courses = make([]library.Course, len(m.Courses))
		for i := range m.Courses {
			a.Courses[i] = *toCourseEntity(&m.Courses[i])
		}
	}
	return a
}

func toAuthorEntities(models []AuthorModel) []*library.Author {
	authors := make([]*library.Author, len(models))
	for i := range models {
		authors[i] = toAuthorEntity(&models[i])
	}
	return authors
}

func toCourseModel(c *library.Course) *CourseModel {
	return &CourseModel{
		ID:          c.ID,
		AuthorID:    c.AuthorID,
		Title:       c.Title,
		Description: c.Description,
	}
}

func toCourseEntity(m *CourseModel) *library.Course {
	return &library.Course{
		ID:          m.ID,
		AuthorID:    m.AuthorID,
		Title:       m.Title,
		Description: m.Description,
	}
}

func toCourseEntities(models []CourseModel) []*library.Course {
	courses := make([]*library.Course, len(models))
	for i := range models {
		courses[i] = toCourseEntity(&models[i])
	}
	return courses
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
