package pies

import (
	"context"
	"html/template"
	"net/url"
	"strings"

	"github.com/weibaohui/piepress/internal/cms"
	"github.com/weibaohui/piepress/internal/domain"
	"github.com/weibaohui/piepress/internal/model"
	"github.com/weibaohui/piepress/internal/pkg/sanitize"
)

// ListingRequest 公开列表的过滤条件，空值表示不过滤
type ListingRequest struct {
	Lookup      string
	Ingredients string
	Page        int
	// Path 与 Vars 用于生成分页链接
	Path string
	Vars url.Values
}

// Pie 列表中的一项
type Pie struct {
	ID          uint   `json:"id"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	PieType     string `json:"pie_type"`
	Description string `json:"description"`
	Ingredients string `json:"ingredients"`
}

type ListingResult struct {
	Pies       []Pie         `json:"pies"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	PerPage    int           `json:"per_page"`
	TotalPages int           `json:"total_pages"`
	Pagination template.HTML `json:"-"`
}

// Listing 查询已发布的 pies，每页 PerPage 条；两个过滤条件同时给出时须同时满足
func (r *Registrar) Listing(ctx context.Context, req ListingRequest) (*ListingResult, error) {
	q := &domain.PostQuery{
		Type:    PostType,
		Status:  model.PostStatusPublish,
		PerPage: PerPage,
		Page:    req.Page,
		Meta:    domain.MetaQuery{Relation: domain.MetaRelationAnd},
	}
	if lookup := sanitize.TextField(req.Lookup); lookup != "" {
		q.Meta.Add(domain.MetaClause{Key: MetaPieType, Value: lookup, Compare: domain.MetaCompareLike})
	}
	if ingredients := sanitize.TextField(req.Ingredients); ingredients != "" {
		q.Meta.Add(domain.MetaClause{Key: MetaIngredients, Value: ingredients, Compare: domain.MetaCompareLike})
	}

	result, err := r.host.Query(ctx, q)
	if err != nil {
		return nil, err
	}

	out := &ListingResult{
		Pies:       make([]Pie, 0, len(result.Posts)),
		Total:      result.Total,
		Page:       result.Page,
		PerPage:    result.PerPage,
		TotalPages: result.MaxPages,
	}
	loop := result.Loop()
	for loop.Next() {
		post := loop.Post()
		out.Pies = append(out.Pies, Pie{
			ID:          post.ID,
			Slug:        post.Slug,
			Title:       post.Title,
			PieType:     loop.Meta(MetaPieType),
			Description: loop.Meta(MetaDescription),
			Ingredients: loop.Meta(MetaIngredients),
		})
	}

	out.Pagination = template.HTML(cms.PaginateLinks(cms.PaginateArgs{
		Current: result.Page,
		Total:   result.MaxPages,
		Path:    req.Path,
		Vars:    req.Vars,
	}))
	return out, nil
}

var listingTmpl = template.Must(template.New("pies_list").Parse(
	`{{if .Pies}}<div class="pies-list">` +
		`{{range .Pies}}<div class="pie-item">` +
		`<h2>{{.Title}}</h2>` +
		`<p><strong>Description:</strong> {{.Description}}</p>` +
		`<p><strong>Type:</strong> {{.PieType}}</p>` +
		`<p><strong>Ingredients:</strong> {{.Ingredients}}</p>` +
		`</div>{{end}}` +
		`</div><div class="pagination">{{.Pagination}}</div>` +
		`{{else}}<p>No pies found.</p>{{end}}`))

// displayPies [pies lookup="..." ingredients="..." paged="..."]，未给出 paged 时取请求参数
func (r *Registrar) displayPies(ctx context.Context, call cms.ShortcodeCall) (string, error) {
	result, err := r.Listing(ctx, ListingRequest{
		Lookup:      call.Attr("lookup", ""),
		Ingredients: call.Attr("ingredients", ""),
		Page:        cms.ParsePage(call.Attr("paged", call.Vars.Get("paged"))),
		Path:        call.Path,
		Vars:        call.Vars,
	})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	if err := listingTmpl.Execute(&b, result); err != nil {
		return "", err
	}
	return b.String(), nil
}
