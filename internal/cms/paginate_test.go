package cms

import (
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestPaginateLinksSinglePage(t *testing.T) {
	assert.Empty(t, PaginateLinks(PaginateArgs{Current: 1, Total: 1}))
	assert.Empty(t, PaginateLinks(PaginateArgs{Current: 1, Total: 0}))
}

func TestPaginateLinks(t *testing.T) {
	out := PaginateLinks(PaginateArgs{Current: 1, Total: 3, Path: "/page/menu", Vars: url.Values{"lang": {"en"}}})

	assert.NotContains(t, out, "prev page-numbers")
	assert.Contains(t, out, `<span aria-current="page" class="page-numbers current">1</span>`)
	assert.Contains(t, out, `<a class="page-numbers" href="/page/menu?lang=en&amp;paged=2">2</a>`)
	assert.Contains(t, out, `<a class="page-numbers" href="/page/menu?lang=en&amp;paged=3">3</a>`)
	assert.Contains(t, out, `<a class="next page-numbers" href="/page/menu?lang=en&amp;paged=2">Next &raquo;</a>`)
}

func TestPaginateLinksDots(t *testing.T) {
	out := PaginateLinks(PaginateArgs{Current: 6, Total: 12, Path: "/pies"})

	assert.Contains(t, out, `<a class="prev page-numbers" href="/pies?paged=5">&laquo; Previous</a>`)
	// 第一页链接不带页码参数
	assert.Contains(t, out, `<a class="page-numbers" href="/pies">1</a>`)
	assert.NotContains(t, out, ">2</a>")
	assert.Contains(t, out, ">4</a>")
	assert.Contains(t, out, ">8</a>")
	assert.NotContains(t, out, ">9</a>")
	assert.Contains(t, out, ">12</a>")
	assert.Equal(t, 2, strings.Count(out, "dots"))
}

func TestParsePage(t *testing.T) {
	for in, want := range map[string]int{"": 1, "0": 1, "-3": 1, "abc": 1, "2": 2, " 7 ": 7, "9223372036854775807": MaxPage} {
		if got := ParsePage(in); got != want {
			t.Errorf("ParsePage(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestParsePageProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.Int().Draw(rt, "n")
		want := min(max(n, 1), MaxPage)
		if got := ParsePage(strconv.Itoa(n)); got != want {
			rt.Fatalf("ParsePage(%d) = %d", n, got)
		}
	})
}
