package dto

import (
	"reflect"
	"strings"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/xiebiao/courselibrary/internal/domain/library"
	"github.com/xiebiao/courselibrary/pkg/validation"
)

// CourseDto HTTP课程响应
type CourseDto struct {
	ID          uuid.UUID `json:"id" example:"5b1c2b4d-48c7-402a-80c3-cc796ad49c6b"`
	AuthorID    uuid.UUID `json:"authorId" example:"d28888e9-2ba9-473a-a40f-e38cb54f9b35"`
	Title       string    `json:"title" example:"Commandeering a Ship Without Getting Caught"`
	Description string    `json:"description" example:"Commandeering a ship in rough waters isn't easy."`
}

// CourseForManipulation 创建/更新课程共用的字段
// 请求体不使用binding tag:PATCH之后的结果同样要经过完整规则校验,规则统一放在CourseValidator中
type CourseForManipulation struct {
	Title       string `json:"title" example:"Intro"`
	Description string `json:"description" example:"Basics"`
}

func (m *CourseForManipulation) manipulation() *CourseForManipulation {
	return m
}

// CourseForCreation POST请求体
type CourseForCreation struct {
	CourseForManipulation
}

// CourseForUpdate PUT请求体,也是PATCH的应用目标
type CourseForUpdate struct {
	CourseForManipulation
}

// 课程字段限制
const (
	CourseTitleMaxLength       = 100
	CourseDescriptionMaxLength = 1500
)

type courseManipulator interface {
	manipulation() *CourseForManipulation
}

// CourseValidator 课程完整规则集:字段规则 + 标题与描述不能相同
// 适用于*CourseForCreation和*CourseForUpdate,字段规则通过后才检查跨字段规则
var CourseValidator = validation.New(
	validation.ObjectLevel(
		validation.New(
			validation.Ozzo[CourseForCreation](func(v *CourseForCreation) error {
				return v.validateFields()
			}),
			validation.Ozzo[CourseForUpdate](func(v *CourseForUpdate) error {
				return v.validateFields()
			}),
		),
		validation.RuleFunc(titleMustDifferFromDescription),
	),
)

func (m *CourseForManipulation) validateFields() error {
	return ozzo.ValidateStruct(m,
		ozzo.Field(&m.Title,
			ozzo.Required.Error("请填写课程标题"),
			ozzo.RuneLength(0, CourseTitleMaxLength).Error("标题不能超过100个字符"),
		),
		ozzo.Field(&m.Description,
			ozzo.RuneLength(0, CourseDescriptionMaxLength).Error("描述不能超过1500个字符"),
		),
	)
}

// titleMustDifferFromDescription 跨字段规则(忽略大小写)
// 错误挂在对象级key上,key为DTO类型名
func titleMustDifferFromDescription(obj interface{}, errs *validation.Errors) {
	cm, ok := obj.(courseManipulator)
	if !ok || reflect.ValueOf(obj).IsNil() {
		return
	}
	m := cm.manipulation()
	if strings.EqualFold(m.Title, m.Description) {
		errs.Add(objectKey(obj), "课程描述必须与标题不同")
	}
}

func objectKey(obj interface{}) string {
	t := reflect.TypeOf(obj)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// =========================================
// 映射函数
// =========================================

// ToCourseDto 实体 → 响应
func ToCourseDto(c *library.Course) CourseDto {
	return CourseDto{
		ID:          c.ID,
		AuthorID:    c.AuthorID,
		Title:       c.Title,
		Description: c.Description,
	}
}

// ToCourseDtos 批量转换,保持顺序
func ToCourseDtos(courses []*library.Course) []CourseDto {
	out := make([]CourseDto, 0, len(courses))
	for _, c := range courses {
		out = append(out, ToCourseDto(c))
	}
	return out
}

// CourseFromCreation 创建请求 → 新实体(ID与AuthorID由仓储设置)
func CourseFromCreation(in *CourseForCreation) *library.Course {
	return library.NewCourse(in.Title, in.Description)
}

// CourseFromUpdate 更新请求 → 新实体(PUT/PATCH的upsert分支)
func CourseFromUpdate(in *CourseForUpdate) *library.Course {
	return library.NewCourse(in.Title, in.Description)
}

// CourseToUpdate 实体 → 更新DTO,作为PATCH的应用目标
func CourseToUpdate(c *library.Course) CourseForUpdate {
	return CourseForUpdate{CourseForManipulation{
		Title:       c.Title,
		Description: c.Description,
	}}
}

// ApplyCourseUpdate 把更新DTO的字段覆盖到已加载的实体上
func ApplyCourseUpdate(in *CourseForUpdate, c *library.Course) {
	c.Apply(in.Title, in.Description)
}
