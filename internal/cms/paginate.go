package cms

import (
	"fmt"
	"html"
	"net/url"
	"strconv"
	"strings"
)

// PaginateArgs 分页链接参数
type PaginateArgs struct {
	Current int
	Total   int
	// Path 链接指向的路径，Vars 中的其他参数会被保留
	Path  string
	Vars  url.Values
	Param string // 页码参数名，默认 paged
	// MidSize 当前页两侧显示的页数，EndSize 首尾固定显示的页数
	MidSize int
	EndSize int
}

// PaginateLinks 生成上一页、页码、下一页链接；总页数不超过 1 时返回空串
func PaginateLinks(args PaginateArgs) string {
	if args.Total <= 1 {
		return ""
	}
	if args.Param == "" {
		args.Param = "paged"
	}
	if args.MidSize <= 0 {
		args.MidSize = 2
	}
	if args.EndSize <= 0 {
		args.EndSize = 1
	}
	current := args.Current
	if current < 1 {
		current = 1
	}
	if current > args.Total {
		current = args.Total
	}

	var b strings.Builder
	if current > 1 {
		fmt.Fprintf(&b, `<a class="prev page-numbers" href="%s">&laquo; Previous</a>`, args.href(current-1))
	}

	dots := false
	for n := 1; n <= args.Total; n++ {
		switch {
		case n == current:
			fmt.Fprintf(&b, `<span aria-current="page" class="page-numbers current">%d</span>`, n)
			dots = true
		case n <= args.EndSize ||
			(n >= current-args.MidSize && n <= current+args.MidSize) ||
			n > args.Total-args.EndSize:
			fmt.Fprintf(&b, `<a class="page-numbers" href="%s">%d</a>`, args.href(n), n)
			dots = true
		case dots:
			b.WriteString(`<span class="page-numbers dots">&hellip;</span>`)
			dots = false
		}
	}

	if current < args.Total {
		fmt.Fprintf(&b, `<a class="next page-numbers" href="%s">Next &raquo;</a>`, args.href(current+1))
	}
	return b.String()
}

func (a PaginateArgs) href(page int) string {
	vars := url.Values{}
	for k, v := range a.Vars {
		vars[k] = append([]string(nil), v...)
	}
	if page <= 1 {
		vars.Del(a.Param)
	} else {
		vars.Set(a.Param, strconv.Itoa(page))
	}

	link := a.Path
	if encoded := vars.Encode(); encoded != "" {
		link += "?" + encoded
	}
	if link == "" {
		link = "?"
	}
	return html.EscapeString(link)
}

// MaxPage 页码上限，避免偏移量溢出
const MaxPage = 1 << 20

// ParsePage 非法或小于 1 的页码按第 1 页处理，超过 MaxPage 的按 MaxPage 处理
func ParsePage(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	return min(n, MaxPage)
}
