package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// UseJSONFieldNames 让go-playground validator报告json tag名称（title而非Title）
// 在路由初始化时对gin的binding引擎调用一次
func UseJSONFieldNames(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form", "uri"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
}

// CollectBinding 把gin绑定阶段的错误写入errs
func CollectBinding(err error, errs *Errors) {
	if err == nil {
		return
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			errs.Add(bindingField(fe), bindingMessage(fe))
		}
		return
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		errs.Add(typeErr.Field, fmt.Sprintf("值的类型应为%s", typeErr.Type.String()))
		return
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		errs.Add("", "请求体不是有效的JSON")
		return
	}

	errs.Add("", err.Error())
}

// bindingField 去掉顶层结构体名: CourseForCreation.title → title
func bindingField(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func bindingMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "该字段为必填项"
	case "max":
		return fmt.Sprintf("长度不能超过%s", fe.Param())
	case "min":
		return fmt.Sprintf("长度不能少于%s", fe.Param())
	case "uuid", "uuid4":
		return "必须是有效的GUID"
	case "oneof":
		return fmt.Sprintf("必须是以下值之一: %s", fe.Param())
	default:
		return fmt.Sprintf("校验规则%s未通过", fe.Tag())
	}
}
