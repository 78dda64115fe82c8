package handler

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/weibaohui/piepress/internal/cms"
	"github.com/weibaohui/piepress/internal/domain"
	"github.com/weibaohui/piepress/internal/model"
	"github.com/weibaohui/piepress/internal/pies"
	"github.com/weibaohui/piepress/internal/service"
)

const archivePerPage = 10

// PublicHandler 前台归档、单页与 pies 列表接口
type PublicHandler struct {
	host   *cms.Host
	posts  *service.PostService
	pies   *pies.Registrar
	render *Renderer
}

func NewPublicHandler(host *cms.Host, posts *service.PostService, registrar *pies.Registrar, render *Renderer) *PublicHandler {
	return &PublicHandler{
		host:   host,
		posts:  posts,
		pies:   registrar,
		render: render,
	}
}

type archiveItem struct {
	Title string
	URL   string
}

type archiveData struct {
	PostType   cms.PostType
	Items      []archiveItem
	Pagination template.HTML
}

// Archive 某内容类型的公开归档页
func (h *PublicHandler) Archive(pt cms.PostType) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := h.host.Query(c.Request.Context(), &domain.PostQuery{
			Type:        pt.Name,
			Status:      model.PostStatusPublish,
			PerPage:     archivePerPage,
			Page:        cms.ParsePage(c.Query("paged")),
			IsMainQuery: true,
		})
		if err != nil {
			h.render.Error(c, err)
			return
		}

		data := archiveData{
			PostType: pt,
			Pagination: template.HTML(cms.PaginateLinks(cms.PaginateArgs{
				Current: result.Page,
				Total:   result.MaxPages,
				Path:    c.Request.URL.Path,
				Vars:    c.Request.URL.Query(),
			})),
		}
		loop := result.Loop()
		for loop.Next() {
			post := loop.Post()
			data.Items = append(data.Items, archiveItem{Title: post.Title, URL: "/" + pt.Slug() + "/" + post.Slug})
		}

		body, err := h.render.Partial("archive", data)
		if err != nil {
			h.render.Error(c, err)
			return
		}
		h.render.Public(c, http.StatusOK, pt.Labels.Name, body)
	}
}

// Single 已发布条目的公开页面，正文中的模板函数在此展开
func (h *PublicHandler) Single(pt cms.PostType) gin.HandlerFunc {
	return func(c *gin.Context) {
		post, err := h.posts.GetPublished(c.Request.Context(), pt.Name, c.Param("name"))
		if err != nil {
			h.render.Error(c, err)
			return
		}

		content := h.host.Shortcodes.Expand(c.Request.Context(), post.Content, c.Request.URL.Query(), c.Request.URL.Path)
		body, err := h.render.Partial("single", gin.H{
			"Title":   post.Title,
			"Content": template.HTML(content),
		})
		if err != nil {
			h.render.Error(c, err)
			return
		}
		h.render.Public(c, http.StatusOK, post.Title, body)
	}
}

// Pies JSON 形式的公开 pies 列表，过滤与分页规则同 [pies]
func (h *PublicHandler) Pies(c *gin.Context) {
	result, err := h.pies.Listing(c.Request.Context(), pies.ListingRequest{
		Lookup:      c.Query("lookup"),
		Ingredients: c.Query("ingredients"),
		Page:        cms.ParsePage(c.Query("paged")),
		Path:        c.Request.URL.Path,
		Vars:        c.Request.URL.Query(),
	})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *PublicHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
