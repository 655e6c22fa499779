package library

import (
	apperrors "github.com/xiebiao/courselibrary/pkg/errors"
)

// 作者/课程领域错误定义
var (
	// ErrAuthorNotFound 作者不存在
	ErrAuthorNotFound = apperrors.ErrAuthorNotFound

	// ErrCourseNotFound 课程不存在
	ErrCourseNotFound = apperrors.ErrCourseNotFound

	// ErrInvalidOrderBy 无法识别的排序属性
	ErrInvalidOrderBy = apperrors.ErrInvalidOrderBy

	// ErrNoEffect Save未命中任何记录(并发删除等)
	ErrNoEffect = apperrors.New(apperrors.ErrCodeNotFound, "资源不存在或已被删除")
)

// InvalidArgument 参数不合法(零值ID、nil实体等)
func InvalidArgument(name string) error {
	return apperrors.InvalidArgument(name)
}
