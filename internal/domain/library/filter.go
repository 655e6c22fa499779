package library

import "strings"

// AuthorsFilter 作者列表过滤条件
// 零值表示不过滤,等价于GetAuthors
type AuthorsFilter struct {
	MainCategory string // 精确匹配(去除首尾空白后)
	SearchQuery  string // 模糊匹配 main_category / first_name / last_name
	OrderBy      string // 逗号分隔的排序属性,如 "name desc, age"
}

// Normalize 去除首尾空白
func (f AuthorsFilter) Normalize() AuthorsFilter {
	return AuthorsFilter{
		MainCategory: strings.TrimSpace(f.MainCategory),
		SearchQuery:  strings.TrimSpace(f.SearchQuery),
		OrderBy:      strings.TrimSpace(f.OrderBy),
	}
}

// IsEmpty 是否没有任何过滤条件(不含排序)
func (f AuthorsFilter) IsEmpty() bool {
	n := f.Normalize()
	return n.MainCategory == "" && n.SearchQuery == ""
}

// SortField 排序属性
type SortField struct {
	Property   string
	Descending bool
}

// ParseOrderBy 解析排序子句
// "name desc, age" → [{name true} {age false}];空项被忽略
func ParseOrderBy(orderBy string) []SortField {
	var fields []SortField
	for _, clause := range strings.Split(orderBy, ",") {
		parts := strings.Fields(clause)
		if len(parts) == 0 {
			continue
		}
		fields = append(fields, SortField{
			Property:   parts[0],
			Descending: len(parts) > 1 && strings.EqualFold(parts[1], "desc"),
		})
	}
	return fields
}
