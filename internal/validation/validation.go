// Package validation 统一的表单校验规则
// gin 绑定使用 dto 上的 binding tag，这里把同一份规则导出给页面表单
package validation

import (
	"reflect"
	"sort"
	"strings"
	"sync"

	"terminal-terrace/guideline-wiki/internal/dto"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var setupOnce sync.Once

// Setup 让校验错误使用 json 字段名
func Setup() {
	setupOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(jsonTagName)
		}
	})
}

func jsonTagName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	switch name {
	case "":
		return fld.Name
	case "-":
		return ""
	}
	return name
}

// FieldSchema 单个字段的规则
type FieldSchema struct {
	Name     string            `json:"name"`
	Type     string            `json:"type"`
	Required bool              `json:"required"`
	Rules    map[string]string `json:"rules,omitempty"`
	Items    []FieldSchema     `json:"items,omitempty"`
}

// FormSchema 一个表单的全部字段
type FormSchema struct {
	Form   string        `json:"form"`
	Fields []FieldSchema `json:"fields"`
}

var forms = map[string]any{
	"category":    dto.CategoryRequest{},
	"tag":         dto.TagRequest{},
	"guideline":   dto.GuidelineRequest{},
	"user-create": dto.CreateUserRequest{},
	"user-update": dto.UpdateUserRequest{},
	"login":       dto.LoginRequest{},
}

// FormNames 所有可导出的表单名
func FormNames() []string {
	names := make([]string, 0, len(forms))
	for name := range forms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Schema 返回指定表单的规则
func Schema(form string) (FormSchema, bool) {
	v, ok := forms[form]
	if !ok {
		return FormSchema{}, false
	}
	return FormSchema{Form: form, Fields: fieldsOf(reflect.TypeOf(v))}, true
}

func fieldsOf(t reflect.Type) []FieldSchema {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	fields := make([]FieldSchema, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := jsonTagName(f)
		if name == "" || !f.IsExported() {
			continue
		}

		fs := FieldSchema{Name: name, Type: typeName(f.Type), Rules: map[string]string{}}
		parseRules(f.Tag.Get("binding"), &fs)

		if elem := sliceElem(f.Type); elem != nil && elem.Kind() == reflect.Struct {
			fs.Items = fieldsOf(elem)
		}
		if len(fs.Rules) == 0 {
			fs.Rules = nil
		}
		fields = append(fields, fs)
	}
	return fields
}

// parseRules 只取 dive 之前的规则，dive 之后的作用于元素
func parseRules(tag string, fs *FieldSchema) {
	if tag == "" {
		return
	}
	for _, rule := range strings.Split(tag, ",") {
		key, param, _ := strings.Cut(rule, "=")
		switch key {
		case "dive":
			return
		case "required":
			fs.Required = true
		case "omitempty":
		default:
			fs.Rules[key] = param
		}
	}
}

func sliceElem(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Slice {
		e := t.Elem()
		for e.Kind() == reflect.Pointer {
			e = e.Elem()
		}
		return e
	}
	return nil
}

func typeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	default:
		return "object"
	}
}
