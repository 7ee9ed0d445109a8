// Package slug 从名称或标题生成 URL 标识
package slug

import (
	"strings"
	"unicode"
)

// Make 转小写，连续空白折叠为单个 "-"，首尾空白去掉
// 其他字符原样保留，唯一性由调用方保证
func Make(s string) string {
	fields := strings.FieldsFunc(strings.ToLower(s), unicode.IsSpace)
	return strings.Join(fields, "-")
}
