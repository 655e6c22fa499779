// Package validation 提供统一的校验错误收集器与规则接口
//
// 设计说明:
// 1. Errors 是显式传递的错误收集器（对应一次请求），绑定错误、Patch应用错误、规则错误都写入同一个实例
// 2. Rule 是所有规则的统一接口，字段规则(ozzo-validation)与跨字段规则都实现它
// 3. 错误按写入顺序保存，渲染为 {field: [messages]}
package validation

import (
	"sort"
	"strings"
)

// FieldError 单个字段错误
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors 有序的字段错误集合
type Errors struct {
	items []FieldError
}

// NewErrors 创建空的错误收集器
func NewErrors() *Errors {
	return &Errors{}
}

// Add 添加一条字段错误，field为空表示对象级错误
func (e *Errors) Add(field, message string) {
	e.items = append(e.items, FieldError{Field: field, Message: message})
}

// Merge 合并另一个收集器的错误，prefix用于嵌套对象（如 courses[0]）
func (e *Errors) Merge(prefix string, other *Errors) {
	if other == nil {
		return
	}
	for _, it := range other.items {
		e.Add(joinField(prefix, it.Field), it.Message)
	}
}

// Valid 没有任何错误
func (e *Errors) Valid() bool {
	return len(e.items) == 0
}

// Len 错误条数
func (e *Errors) Len() int {
	return len(e.items)
}

// Items 按写入顺序返回所有错误
func (e *Errors) Items() []FieldError {
	out := make([]FieldError, len(e.items))
	copy(out, e.items)
	return out
}

// Has 是否存在指定字段的错误
func (e *Errors) Has(field string) bool {
	for _, it := range e.items {
		if it.Field == field {
			return true
		}
	}
	return false
}

// Map 渲染为 field → messages，同一字段的消息保持写入顺序
func (e *Errors) Map() map[string][]string {
	out := make(map[string][]string, len(e.items))
	for _, it := range e.items {
		out[it.Field] = append(out[it.Field], it.Message)
	}
	return out
}

// Fields 按首次出现顺序返回字段名
func (e *Errors) Fields() []string {
	seen := make(map[string]bool, len(e.items))
	fields := make([]string, 0, len(e.items))
	for _, it := range e.items {
		if !seen[it.Field] {
			seen[it.Field] = true
			fields = append(fields, it.Field)
		}
	}
	return fields
}

// Error 实现error接口
func (e *Errors) Error() string {
	parts := make([]string, 0, len(e.items))
	for _, it := range e.items {
		if it.Field == "" {
			parts = append(parts, it.Message)
			continue
		}
		parts = append(parts, it.Field+": "+it.Message)
	}
	return strings.Join(parts, "; ")
}

// Err 没有错误时返回nil
func (e *Errors) Err() error {
	if e.Valid() {
		return nil
	}
	return e
}

func joinField(prefix, field string) string {
	switch {
	case prefix == "":
		return field
	case field == "":
		return prefix
	case strings.HasPrefix(field, "["):
		return prefix + field
	default:
		return prefix + "." + field
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
