package library

import (
	"time"

	"github.com/google/uuid"
)

// Author 作者实体(聚合根)
// DDD设计说明:
// 1. Author拥有其全部Course,删除作者时级联删除课程
// 2. ID由仓储在AddAuthor时生成,之后不可变
// 3. 实体不感知持久化细节,与GORM模型之间显式映射
type Author struct {
	ID           uuid.UUID
	FirstName    string
	LastName     string
	DateOfBirth  time.Time
	DateOfDeath  *time.Time // 可选
	MainCategory string     // 主要领域(过滤条件)
	Courses      []Course
}

// Name 全名
func (a *Author) Name() string {
	return a.FirstName + " " + a.LastName
}

// Age 周岁年龄
// 已故作者计算到去世日期,否则计算到now
func (a *Author) Age(now time.Time) int {
	end := now
	if a.DateOfDeath != nil {
		end = *a.DateOfDeath
	}
	return yearsBetween(a.DateOfBirth, end)
}

func yearsBetween(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	to = to.In(from.Location())
	years := to.Year() - from.Year()
	if to.Month() < from.Month() || (to.Month() == from.Month() && to.Day() < from.Day()) {
		years--
	}
	return years
}

// Course 课程实体
// 一门课程始终属于且仅属于一个作者;AuthorID总是以URL中的作者ID为准
type Course struct {
	ID          uuid.UUID
	AuthorID    uuid.UUID
	Title       string
	Description string
}

// NewCourse 创建课程(ID留空,由AddCourse分配或由调用方指定)
func NewCourse(title, description string) *Course {
	return &Course{
		Title:       title,
		Description: description,
	}
}

// Apply 覆盖可修改字段(用于PUT/PATCH),ID与AuthorID保持不变
func (c *Course) Apply(title, description string) {
	c.Title = title
	c.Description = description
}
