package validation

import (
	"strconv"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
)

// Rule 校验规则
// obj 为完整的候选对象，规则把发现的问题写入errs
type Rule interface {
	Validate(obj interface{}, errs *Errors)
}

// RuleFunc 函数适配为Rule
type RuleFunc func(obj interface{}, errs *Errors)

func (f RuleFunc) Validate(obj interface{}, errs *Errors) {
	f(obj, errs)
}

// Validator 按顺序执行的一组规则，本身也是Rule
type Validator struct {
	rules []Rule
}

// New 创建校验器
func New(rules ...Rule) *Validator {
	return &Validator{rules: rules}
}

// Validate 执行全部规则（不会在第一个错误处停止）
func (v *Validator) Validate(obj interface{}, errs *Errors) {
	for _, r := range v.rules {
		r.Validate(obj, errs)
	}
}

// Check 执行全部规则，返回本次是否没有新增错误
func (v *Validator) Check(obj interface{}, errs *Errors) bool {
	before := errs.Len()
	v.Validate(obj, errs)
	return errs.Len() == before
}

// ObjectLevel 字段规则没有新增错误时才执行对象级规则
func ObjectLevel(fields, object Rule) Rule {
	return RuleFunc(func(obj interface{}, errs *Errors) {
		before := errs.Len()
		fields.Validate(obj, errs)
		if errs.Len() == before {
			object.Validate(obj, errs)
		}
	})
}

// Ozzo 把基于ozzo-validation的字段规则包装为Rule
// 对象类型不匹配时规则不生效
func Ozzo[T any](fn func(v *T) error) Rule {
	return RuleFunc(func(obj interface{}, errs *Errors) {
		v, ok := obj.(*T)
		if !ok || v == nil {
			return
		}
		if err := fn(v); err != nil {
			CollectOzzo("", err, errs)
		}
	})
}

// CollectOzzo 展开ozzo的(嵌套)错误并写入errs
// 嵌套切片元素的key为下标，渲染为 courses[0].title
func CollectOzzo(prefix string, err error, errs *Errors) {
	if err == nil {
		return
	}
	if nested, ok := err.(ozzo.Errors); ok {
		for _, k := range sortedKeys(nested) {
			if nested[k] == nil {
				continue
			}
			CollectOzzo(joinField(prefix, ozzoKey(k)), nested[k], errs)
		}
		return
	}
	errs.Add(prefix, err.Error())
}

func ozzoKey(k string) string {
	if _, err := strconv.Atoi(k); err == nil {
		return "[" + k + "]"
	}
	return k
}
