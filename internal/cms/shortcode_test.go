package cms

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAttrs(t *testing.T) {
	attrs := ParseAttrs(` lookup="Fruit Pie" ingredients='Sugar' paged=2 Empty=""`)
	assert.Equal(t, map[string]string{
		"lookup":      "Fruit Pie",
		"ingredients": "Sugar",
		"paged":       "2",
		"empty":       "",
	}, attrs)
}

func TestShortcodeExpand(t *testing.T) {
	r := NewShortcodeRegistry()
	var got ShortcodeCall
	r.Add("pies", func(ctx context.Context, call ShortcodeCall) (string, error) {
		got = call
		return "<div>list</div>", nil
	})
	r.Add("broken", func(ctx context.Context, call ShortcodeCall) (string, error) {
		return "", errors.New("boom")
	})

	vars := url.Values{"paged": {"2"}}
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "no shortcode", content: "plain text", want: "plain text"},
		{name: "expanded", content: `Before [pies lookup="Fruit"] after`, want: "Before <div>list</div> after"},
		{name: "self closing", content: `[pies /]`, want: "<div>list</div>"},
		{name: "unknown kept", content: `[gallery id=1] [1]`, want: `[gallery id=1] [1]`},
		{name: "escaped", content: `[[pies]]`, want: `[pies]`},
		{name: "error becomes empty", content: `a[broken]b`, want: "ab"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Expand(context.Background(), tt.content, vars, "/page/menu"))
		})
	}

	r.Expand(context.Background(), `[PIES lookup="Nut" ingredients=pecans]`, vars, "/page/menu")
	assert.Equal(t, "pies", got.Name)
	assert.Equal(t, "Nut", got.Attr("lookup", ""))
	assert.Equal(t, "pecans", got.Attr("ingredients", ""))
	assert.Equal(t, "fallback", got.Attr("paged", "fallback"))
	assert.Equal(t, "2", got.Vars.Get("paged"))
	assert.Equal(t, "/page/menu", got.Path)
}
