package cms

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"k8s.io/klog/v2"
)

// ShortcodeCall 一次模板函数调用
type ShortcodeCall struct {
	Name  string
	Attrs map[string]string
	// Vars 当前请求的查询参数，如 paged
	Vars url.Values
	// Path 当前请求路径，用于生成分页链接
	Path string
}

// Attr 读取属性，缺省时返回 def
func (c ShortcodeCall) Attr(name, def string) string {
	if v, ok := c.Attrs[name]; ok {
		return v
	}
	return def
}

// ShortcodeFunc 模板函数，返回 HTML 片段
type ShortcodeFunc func(ctx context.Context, call ShortcodeCall) (string, error)

type ShortcodeRegistry struct {
	mu    sync.RWMutex
	funcs map[string]ShortcodeFunc
}

func NewShortcodeRegistry() *ShortcodeRegistry {
	return &ShortcodeRegistry{funcs: make(map[string]ShortcodeFunc)}
}

func (r *ShortcodeRegistry) Add(name string, fn ShortcodeFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.funcs[strings.ToLower(name)] = fn
}

func (r *ShortcodeRegistry) Get(name string) (ShortcodeFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.funcs[strings.ToLower(name)]
	return fn, ok
}

var (
	// [[name ...]] 是转义写法，原样输出 [name ...]
	shortcodePattern = regexp.MustCompile(`\[(\[?)([A-Za-z0-9_-]+)((?:\s[^\[\]]*?)?)\s*/?\](\]?)`)
	attrPattern      = regexp.MustCompile(`([A-Za-z0-9_-]+)\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"']+))`)
)

// ParseAttrs 解析 key="v" key='v' key=v 形式的属性，键统一小写
func ParseAttrs(raw string) map[string]string {
	attrs := make(map[string]string)
	for _, m := range attrPattern.FindAllStringSubmatch(raw, -1) {
		value := m[2]
		if value == "" {
			value = m[3]
		}
		if value == "" {
			value = m[4]
		}
		attrs[strings.ToLower(m[1])] = value
	}
	return attrs
}

// Expand 展开内容中已注册的模板函数，未注册的保持原样，执行出错的替换为空串
func (r *ShortcodeRegistry) Expand(ctx context.Context, content string, vars url.Values, path string) string {
	if !strings.Contains(content, "[") {
		return content
	}
	return shortcodePattern.ReplaceAllStringFunc(content, func(match string) string {
		m := shortcodePattern.FindStringSubmatch(match)
		escaped := m[1] == "[" && m[4] == "]"
		name := m[2]

		fn, ok := r.Get(name)
		if !ok {
			return match
		}
		if escaped {
			return match[1 : len(match)-1]
		}

		out, err := fn(ctx, ShortcodeCall{
			Name:  strings.ToLower(name),
			Attrs: ParseAttrs(m[3]),
			Vars:  vars,
			Path:  path,
		})
		if err != nil {
			klog.Errorf("shortcode [%s] failed: %v", name, err)
			return ""
		}
		// 只有一侧方括号时保留多出的那个
		return m[1] + out + m[4]
	})
}
