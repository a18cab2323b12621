// Package publish 实现草稿发布：渲染、落库、触发站点重建
package publish

import (
	"strings"
	"unicode"
)

// slugify 把标题转成 URL 友好的 slug
//
// 非字母数字字符折叠成单个连字符，全部小写，首尾不带连字符。
func slugify(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}
