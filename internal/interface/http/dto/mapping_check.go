package dto

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/xiebiao/courselibrary/internal/domain/library"
)

// mapping 一组映射类型的字段约定
// 目标字段必须来自同名源字段、derived中声明的源字段,或列在skipTo中
// 源字段必须被使用,或列在skipFrom中
type mapping struct {
	from     reflect.Type
	to       reflect.Type
	derived  map[string][]string
	skipTo   []string
	skipFrom []string
}

func pairOf[F, T any]() mapping {
	return mapping{
		from: reflect.TypeOf((*F)(nil)).Elem(),
		to:   reflect.TypeOf((*T)(nil)).Elem(),
	}
}

func (m mapping) derive(to string, from ...string) mapping {
	if m.derived == nil {
		m.derived = map[string][]string{}
	}
	m.derived[to] = from
	return m
}

func (m mapping) ignoreTo(fields ...string) mapping {
	m.skipTo = append(m.skipTo, fields...)
	return m
}

func (m mapping) ignoreFrom(fields ...string) mapping {
	m.skipFrom = append(m.skipFrom, fields...)
	return m
}

var mappings = []mapping{
	pairOf[library.Course, CourseDto](),
	pairOf[library.Author, AuthorDto]().
		derive("Name", "FirstName", "LastName").
		derive("Age", "DateOfBirth", "DateOfDeath").
		ignoreFrom("Courses"),
	pairOf[CourseForCreation, library.Course]().ignoreTo("ID", "AuthorID"),
	pairOf[CourseForUpdate, library.Course]().ignoreTo("ID", "AuthorID"),
	pairOf[library.Course, CourseForUpdate]().ignoreFrom("ID", "AuthorID"),
	pairOf[AuthorForCreation, library.Author]().ignoreTo("ID"),
}

// CheckMappings 检查实体与DTO之间的映射是否覆盖了全部字段
// 新增字段而忘记更新映射函数时返回错误(启动时与测试中调用)
func CheckMappings() error {
	var errs []error
	for _, m := range mappings {
		errs = append(errs, m.check())
	}
	return errors.Join(errs...)
}

func (m mapping) check() error {
	from := fieldSet(m.from)
	to := fieldSet(m.to)
	used := map[string]bool{}
	var errs []error

	for name := range to {
		switch {
		case from[name]:
			used[name] = true
		case m.derived[name] != nil:
			for _, src := range m.derived[name] {
				if !from[src] {
					errs = append(errs, fmt.Errorf("%s → %s: 派生字段%s引用了不存在的源字段%s", m.from.Name(), m.to.Name(), name, src))
				}
				used[src] = true
			}
		case contains(m.skipTo, name):
		default:
			errs = append(errs, fmt.Errorf("%s → %s: 目标字段%s没有映射来源", m.from.Name(), m.to.Name(), name))
		}
	}

	for name := range from {
		if !used[name] && !contains(m.skipFrom, name) {
			errs = append(errs, fmt.Errorf("%s → %s: 源字段%s未被映射", m.from.Name(), m.to.Name(), name))
		}
	}
	return errors.Join(errs...)
}

// fieldSet 导出字段集合,嵌入结构体的字段被展开
func fieldSet(t reflect.Type) map[string]bool {
	set := map[string]bool{}
	for _, f := range reflect.VisibleFields(t) {
		if f.Anonymous || !f.IsExported() {
			continue
		}
		set[f.Name] = true
	}
	return set
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
