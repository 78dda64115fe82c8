package handler

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/weibaohui/piepress/internal/cms"
	"github.com/weibaohui/piepress/internal/domain"
	"github.com/weibaohui/piepress/internal/middleware"
	"github.com/weibaohui/piepress/internal/model"
	"github.com/weibaohui/piepress/internal/service"
)

const adminPerPage = 20

// AdminHandler 后台列表、编辑、保存与插件子页面
type AdminHandler struct {
	host   *cms.Host
	posts  *service.PostService
	render *Renderer
}

// NewAdminHandler 同时向 Host 提供默认列表视图
func NewAdminHandler(host *cms.Host, posts *service.PostService, render *Renderer) *AdminHandler {
	h := &AdminHandler{
		host:   host,
		posts:  posts,
		render: render,
	}
	host.SetListView(h.ListView)
	return h
}

type listRow struct {
	Title   string
	Author  string
	Status  string
	Date    string
	EditURL string
}

type listData struct {
	Action     string
	PostType   cms.PostType
	Search     string
	Total      int64
	Rows       []listRow
	Pagination template.HTML
}

// ListView 默认列表：后台主查询，关键字取 s，页码取 paged
func (h *AdminHandler) ListView(ctx context.Context, w io.Writer, postType string, req cms.ScreenRequest) error {
	pt, ok := h.host.Types.Get(postType)
	if !ok {
		return service.ErrUnknownType
	}

	search := req.Vars.Get("s")
	result, err := h.host.Query(ctx, &domain.PostQuery{
		Type:        pt.Name,
		Status:      domain.StatusAny,
		PerPage:     adminPerPage,
		Page:        cms.ParsePage(req.Vars.Get("paged")),
		Search:      search,
		IsAdmin:     true,
		IsMainQuery: true,
	})
	if err != nil {
		return err
	}

	data := listData{
		Action:   req.Path,
		PostType: pt,
		Search:   search,
		Total:    result.Total,
		Pagination: template.HTML(cms.PaginateLinks(cms.PaginateArgs{
			Current: result.Page,
			Total:   result.MaxPages,
			Path:    req.Path,
			Vars:    req.Vars,
		})),
	}
	loop := result.Loop()
	for loop.Next() {
		post := loop.Post()
		data.Rows = append(data.Rows, listRow{
			Title:   post.Title,
			Author:  post.Author,
			Status:  post.Status,
			Date:    post.CreatedAt.Format("2006/01/02"),
			EditURL: editURL(post.ID),
		})
	}
	return h.render.tmpl.ExecuteTemplate(w, "post_list", data)
}

func (h *AdminHandler) List(c *gin.Context) {
	pt, err := h.adminType(c.Query("post_type"))
	if err != nil {
		h.render.Error(c, err)
		return
	}

	var buf bytes.Buffer
	if err := h.host.RenderListView(c.Request.Context(), &buf, pt.Name, screenRequest(c)); err != nil {
		h.render.Error(c, err)
		return
	}
	h.renderAdmin(c, cms.ScreenPostList, pt.Labels.AllItems, template.HTML(buf.String()))
}

func (h *AdminHandler) New(c *gin.Context) {
	pt, err := h.adminType(c.Query("post_type"))
	if err != nil {
		h.render.Error(c, err)
		return
	}
	h.renderEdit(c, pt, &model.Post{Type: pt.Name})
}

func (h *AdminHandler) Edit(c *gin.Context) {
	post, err := h.loadPost(c)
	if err != nil {
		h.render.Error(c, err)
		return
	}
	if !middleware.CurrentPrincipal(c).CanEditPost(post.Author) {
		h.render.Error(c, service.ErrForbidden)
		return
	}
	pt, err := h.adminType(post.Type)
	if err != nil {
		h.render.Error(c, err)
		return
	}
	h.renderEdit(c, pt, post)
}

// Save 新建或更新；完整表单交给 save_post 订阅者
func (h *AdminHandler) Save(c *gin.Context) {
	var id uint
	if c.Param("id") != "" {
		n, err := parseID(c)
		if err != nil {
			h.render.Error(c, err)
			return
		}
		id = n
	}
	if err := c.Request.ParseForm(); err != nil {
		h.render.Error(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	form := c.Request.PostForm

	post, err := h.posts.Save(c.Request.Context(), service.SavePostRequest{
		ID:        id,
		Type:      form.Get("post_type"),
		Title:     form.Get("post_title"),
		Content:   form.Get("content"),
		Status:    form.Get("post_status"),
		Form:      form,
		Principal: middleware.CurrentPrincipal(c),
	})
	if err != nil {
		h.render.Error(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, editURL(post.ID))
}

func (h *AdminHandler) Autosave(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := c.Request.ParseForm(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	form := c.Request.PostForm

	post, err := h.posts.Autosave(c.Request.Context(), id, form.Get("post_title"), form.Get("content"), form, middleware.CurrentPrincipal(c))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": post.ID, "updated_at": post.UpdatedAt})
}

func (h *AdminHandler) Delete(c *gin.Context) {
	post, err := h.loadPost(c)
	if err != nil {
		h.render.Error(c, err)
		return
	}
	if err := h.posts.Delete(c.Request.Context(), post.ID, middleware.CurrentPrincipal(c)); err != nil {
		h.render.Error(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin/posts?post_type="+url.QueryEscape(post.Type))
}

// Page 插件注册的子页面，权限取自菜单注册时声明的 capability
func (h *AdminHandler) Page(c *gin.Context) {
	page, ok := h.host.Menu.Get(c.Param("slug"))
	if !ok {
		h.render.Error(c, fmt.Errorf("admin page %q: %w", c.Param("slug"), errPageNotFound))
		return
	}
	if !middleware.CurrentPrincipal(c).Can(page.Capability) {
		h.render.Error(c, service.ErrForbidden)
		return
	}

	var buf bytes.Buffer
	if err := page.Render(c.Request.Context(), &buf, screenRequest(c)); err != nil {
		h.render.Error(c, err)
		return
	}
	h.renderAdmin(c, page.ScreenID(), page.PageTitle, template.HTML(buf.String()))
}

type editBox struct {
	ID      string
	Title   string
	Context cms.MetaBoxContext
	HTML    template.HTML
}

type editData struct {
	Post        *model.Post
	Boxes       []editBox
	CanPublish  bool
	Action      string
	AutosaveURL string
	DeleteURL   string
}

func (h *AdminHandler) renderEdit(c *gin.Context, pt cms.PostType, post *model.Post) {
	ctx := c.Request.Context()
	p := middleware.CurrentPrincipal(c)

	data := editData{
		Post:       post,
		CanPublish: p.Can(domain.CapPublishPosts),
		Action:     "/admin/posts",
	}
	hook, title := cms.ScreenPostNew, pt.Labels.AddNewItem
	if post.ID > 0 {
		hook, title = cms.ScreenPostEdit, pt.Labels.EditItem
		data.Action = fmt.Sprintf("/admin/posts/%d", post.ID)
		data.AutosaveURL = fmt.Sprintf("/admin/posts/%d/autosave", post.ID)
		if p.CanDeletePost(post.Author) {
			data.DeleteURL = fmt.Sprintf("/admin/posts/%d/delete", post.ID)
		}
	}

	for _, box := range h.host.MetaBoxes.ForType(post.Type) {
		var buf bytes.Buffer
		if err := box.Render(ctx, &buf, post, p); err != nil {
			h.render.Error(c, fmt.Errorf("render meta box %s: %w", box.ID, err))
			return
		}
		data.Boxes = append(data.Boxes, editBox{
			ID:      box.ID,
			Title:   box.Title,
			Context: box.Context,
			HTML:    template.HTML(buf.String()),
		})
	}

	body, err := h.render.Partial("post_edit", data)
	if err != nil {
		h.render.Error(c, err)
		return
	}
	h.renderAdmin(c, hook, title, body)
}

func (h *AdminHandler) renderAdmin(c *gin.Context, hook, title string, body template.HTML) {
	assets := h.host.EnqueueAdminAssets(c.Request.Context(), hook)
	h.render.Admin(c, http.StatusOK, adminLayout{
		Title:   title,
		Hook:    hook,
		Styles:  assets.Styles(),
		Scripts: assets.Scripts(),
		Menu:    h.menu(middleware.CurrentPrincipal(c)),
		Body:    body,
	})
}

// menu 每个在后台显示的类型一组链接，附带当前用户有权访问的子页面
func (h *AdminHandler) menu(p *domain.Principal) []menuItem {
	var items []menuItem
	for _, t := range h.host.Types.All() {
		if !t.ShowUI || !t.ShowInMenu {
			continue
		}
		label := t.Labels.MenuName
		if label == "" {
			label = t.Name
		}
		listURL := "/admin/posts?post_type=" + url.QueryEscape(t.Name)
		item := menuItem{
			Label: label,
			URL:   listURL,
			Children: []menuItem{
				{Label: t.Labels.AllItems, URL: listURL},
				{Label: t.Labels.AddNew, URL: "/admin/posts/new?post_type=" + url.QueryEscape(t.Name)},
			},
		}
		for _, page := range h.host.Menu.ForType(t.Name, p) {
			item.Children = append(item.Children, menuItem{Label: page.MenuTitle, URL: "/admin/pages/" + page.Slug})
		}
		items = append(items, item)
	}
	return items
}

func (h *AdminHandler) adminType(name string) (cms.PostType, error) {
	pt, ok := h.host.Types.Get(name)
	if !ok || !pt.ShowUI {
		return cms.PostType{}, fmt.Errorf("%w: %q", service.ErrUnknownType, name)
	}
	return pt, nil
}

func (h *AdminHandler) loadPost(c *gin.Context) (*model.Post, error) {
	id, err := parseID(c)
	if err != nil {
		return nil, err
	}
	return h.posts.Get(c.Request.Context(), id)
}

var errPageNotFound = fmt.Errorf("%w: admin page", service.ErrUnknownType)

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: invalid id", errBadRequest)
	}
	return uint(id), nil
}

func editURL(id uint) string {
	return fmt.Sprintf("/admin/posts/%d/edit", id)
}

func screenRequest(c *gin.Context) cms.ScreenRequest {
	return cms.ScreenRequest{
		Principal: middleware.CurrentPrincipal(c),
		Vars:      c.Request.URL.Query(),
		Path:      c.Request.URL.Path,
	}
}
