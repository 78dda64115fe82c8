// Package sanitize 清洗后台表单提交的纯文本字段
package sanitize

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strict     = bluemonday.StrictPolicy()
	whitespace = regexp.MustCompile(`[\r\n\t ]+`)
)

// StripTags 去掉全部标签（script/style 连同内容），返回未转义的纯文本。
// 实体编码的标签解码后会再被清洗，直到结果不再变化
func StripTags(s string) string {
	for {
		next := html.UnescapeString(strict.Sanitize(s))
		if next == s {
			return s
		}
		s = next
	}
}

// TextField 单行文本：去标签，换行与连续空白折叠为一个空格
func TextField(s string) string {
	s = StripTags(s)
	s = whitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// TextareaField 多行文本：去标签，保留换行
func TextareaField(s string) string {
	return strings.TrimSpace(StripTags(s))
}
