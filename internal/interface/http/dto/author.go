package dto

import (
	"fmt"
	"time"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/xiebiao/courselibrary/internal/domain/library"
	"github.com/xiebiao/courselibrary/pkg/validation"
)

// AuthorDto HTTP作者响应
// Name和Age由实体派生
type AuthorDto struct {
	ID           uuid.UUID `json:"id" example:"d28888e9-2ba9-473a-a40f-e38cb54f9b35"`
	Name         string    `json:"name" example:"Berry Griffin Beard"`
	Age          int       `json:"age" example:"42"`
	MainCategory string    `json:"mainCategory" example:"Ships"`
}

// AuthorForCreation 创建作者请求体,可同时创建其课程
type AuthorForCreation struct {
	FirstName    string              `json:"firstName" example:"Berry"`
	LastName     string              `json:"lastName" example:"Griffin Beard"`
	DateOfBirth  time.Time           `json:"dateOfBirth" example:"1650-07-23T00:00:00Z"`
	DateOfDeath  *time.Time          `json:"dateOfDeath,omitempty"`
	MainCategory string              `json:"mainCategory" example:"Ships"`
	Courses      []CourseForCreation `json:"courses"`
}

// AuthorsQuery 作者列表查询参数
// 查询参数通过gin binding(go-playground validator)校验
type AuthorsQuery struct {
	MainCategory string `form:"mainCategory" binding:"omitempty,max=50" example:"Rum"`
	SearchQuery  string `form:"searchQuery" binding:"omitempty,max=100" example:"Ry"`
	OrderBy      string `form:"orderBy" binding:"omitempty,max=200" example:"name desc"`
}

// 作者字段限制
const (
	AuthorNameMaxLength     = 50
	AuthorCategoryMaxLength = 50
)

// AuthorValidator 作者规则集,嵌套课程使用CourseValidator,错误key形如courses[0].title
var AuthorValidator = validation.New(
	validation.Ozzo[AuthorForCreation](func(v *AuthorForCreation) error {
		return ozzo.ValidateStruct(v,
			ozzo.Field(&v.FirstName,
				ozzo.Required.Error("请填写名"),
				ozzo.RuneLength(0, AuthorNameMaxLength).Error("名不能超过50个字符"),
			),
			ozzo.Field(&v.LastName,
				ozzo.Required.Error("请填写姓"),
				ozzo.RuneLength(0, AuthorNameMaxLength).Error("姓不能超过50个字符"),
			),
			ozzo.Field(&v.DateOfBirth, ozzo.Required.Error("请填写出生日期")),
			ozzo.Field(&v.MainCategory,
				ozzo.Required.Error("请填写主要领域"),
				ozzo.RuneLength(0, AuthorCategoryMaxLength).Error("主要领域不能超过50个字符"),
			),
		)
	}),
	validation.RuleFunc(validateAuthorCourses),
)

func validateAuthorCourses(obj interface{}, errs *validation.Errors) {
	a, ok := obj.(*AuthorForCreation)
	if !ok || a == nil {
		return
	}
	for i := range a.Courses {
		sub := validation.NewErrors()
		CourseValidator.Validate(&a.Courses[i], sub)
		errs.Merge(fmt.Sprintf("courses[%d]", i), sub)
	}
}

// ToFilter 查询参数 → 领域过滤条件
func (q AuthorsQuery) ToFilter() *library.AuthorsFilter {
	return &library.AuthorsFilter{
		MainCategory: q.MainCategory,
		SearchQuery:  q.SearchQuery,
		OrderBy:      q.OrderBy,
	}
}

// =========================================
// 映射函数
// =========================================

// ToAuthorDto 实体 → 响应,Age按now计算
func ToAuthorDto(a *library.Author, now time.Time) AuthorDto {
	return AuthorDto{
		ID:           a.ID,
		Name:         a.Name(),
		Age:          a.Age(now),
		MainCategory: a.MainCategory,
	}
}

// ToAuthorDtos 批量转换,保持顺序
func ToAuthorDtos(authors []*library.Author, now time.Time) []AuthorDto {
	out := make([]AuthorDto, 0, len(authors))
	for _, a := range authors {
		out = append(out, ToAuthorDto(a, now))
	}
	return out
}

// AuthorFromCreation 创建请求 → 新实体(含课程),ID由仓储分配
func AuthorFromCreation(in *AuthorForCreation) *library.Author {
	a := &library.Author{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		DateOfBirth:  in.DateOfBirth,
		MainCategory: in.MainCategory,
	}
	if in.DateOfDeath != nil {
		d := *in.DateOfDeath
		a.DateOfDeath = &d
	}
	for i := range in.Courses {
		a.Courses = append(a.Courses, *CourseFromCreation(&in.Courses[i]))
	}
	return a
}
