// Package patch 把 RFC 6902 JSON Patch 文档应用到DTO结构体
//
// 处理流程:
// 1. 把目标DTO序列化为JSON
// 2. 逐条应用操作（便于定位失败的操作）
// 3. 把结果反序列化回一个全新的零值DTO（remove 操作即恢复零值）
//
// 所有错误都写入调用方传入的 validation.Errors，不会panic
package patch

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	jsonpatch "github.com/evanphx/json-patch/v5"

	"github.com/xiebiao/courselibrary/pkg/validation"
)

// Operation 单条补丁操作
type Operation struct {
	Op    string          `json:"op" example:"replace"`
	Path  string          `json:"path" example:"/title"`
	From  string          `json:"from,omitempty"`
	Value json.RawMessage `json:"value,omitempty" swaggertype:"string" example:"新的标题"`
}

// Document 补丁文档
type Document []Operation

// Decode 解析补丁文档
func Decode(raw []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("无效的JSON Patch文档: %w", err)
	}
	return doc, nil
}

// ApplyTo 把补丁应用到target（必须是结构体指针）
// 成功返回true；失败时错误写入errs，target保持调用前的状态
func (d Document) ApplyTo(target interface{}, errs *validation.Errors) bool {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		errs.Add("", "补丁目标必须是结构体指针")
		return false
	}

	current, err := json.Marshal(target)
	if err != nil {
		errs.Add("", fmt.Sprintf("无法序列化补丁目标: %v", err))
		return false
	}
	keys := topLevelKeys(current)

	for _, op := range d {
		op.Path = normalizePath(op.Path, keys)
		op.From = normalizePath(op.From, keys)

		// 目标之外的成员反序列化时会被丢弃，必须在这里拒绝
		if !isMember(op.Path, keys) {
			errs.Add(fieldOf(op.Path), fmt.Sprintf("补丁目标位置'%s'不存在", op.Path))
			return false
		}
		if (op.Op == "move" || op.Op == "copy") && !isMember(op.From, keys) {
			errs.Add(fieldOf(op.From), fmt.Sprintf("补丁来源位置'%s'不存在", op.From))
			return false
		}

		single, err := json.Marshal([]Operation{op})
		if err != nil {
			errs.Add(fieldOf(op.Path), fmt.Sprintf("无效的补丁操作: %v", err))
			return false
		}
		p, err := jsonpatch.DecodePatch(single)
		if err != nil {
			errs.Add(fieldOf(op.Path), fmt.Sprintf("无效的补丁操作'%s': %v", op.Op, err))
			return false
		}
		next, err := p.Apply(current)
		if err != nil {
			errs.Add(fieldOf(op.Path), fmt.Sprintf("补丁操作'%s'应用到'%s'失败: %v", op.Op, op.Path, err))
			return false
		}
		current = next
	}

	fresh := reflect.New(rv.Elem().Type())
	if err := json.Unmarshal(current, fresh.Interface()); err != nil {
		validation.CollectBinding(err, errs)
		return false
	}
	rv.Elem().Set(fresh.Elem())
	return true
}

// Apply 解析并应用补丁，解析失败同样写入errs
func Apply(raw []byte, target interface{}, errs *validation.Errors) bool {
	doc, err := Decode(raw)
	if err != nil {
		errs.Add("", err.Error())
		return false
	}
	return doc.ApplyTo(target, errs)
}

func topLevelKeys(doc []byte) []string {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(doc, &m); err != nil {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

// normalizePath 第一段路径大小写不敏感地匹配DTO的json字段: /Title → /title
func normalizePath(path string, keys []string) string {
	if !strings.HasPrefix(path, "/") {
		return path
	}
	segments := strings.SplitN(path[1:], "/", 2)
	for _, k := range keys {
		if k != segments[0] && strings.EqualFold(k, segments[0]) {
			segments[0] = k
			break
		}
	}
	return "/" + strings.Join(segments, "/")
}

// isMember 路径第一段必须是DTO的json字段
func isMember(path string, keys []string) bool {
	if !strings.HasPrefix(path, "/") {
		return false
	}
	first := strings.SplitN(path[1:], "/", 2)[0]
	for _, k := range keys {
		if k == first {
			return true
		}
	}
	return false
}

func fieldOf(path string) string {
	return strings.ReplaceAll(strings.TrimPrefix(path, "/"), "/", ".")
}
