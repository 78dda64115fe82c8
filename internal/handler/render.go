package handler

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/weibaohui/piepress/internal/domain"
	"github.com/weibaohui/piepress/internal/pkg/nonce"
	"github.com/weibaohui/piepress/internal/repository"
	"github.com/weibaohui/piepress/internal/service"
	"k8s.io/klog/v2"
)

// Renderer 渲染后台与前台页面
type Renderer struct {
	tmpl      *template.Template
	siteTitle string
}

func NewRenderer(tmpl *template.Template, siteTitle string) *Renderer {
	return &Renderer{tmpl: tmpl, siteTitle: siteTitle}
}

type menuItem struct {
	Label    string
	URL      string
	Children []menuItem
}

type adminLayout struct {
	SiteTitle string
	Title     string
	Hook      string
	Styles    []domain.Asset
	Scripts   []domain.Asset
	Menu      []menuItem
	Body      template.HTML
}

type publicLayout struct {
	SiteTitle string
	Title     string
	Body      template.HTML
}

// Partial 渲染片段模板
func (r *Renderer) Partial(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

func (r *Renderer) page(c *gin.Context, code int, name string, data any) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		klog.Errorf("render %s failed: %v", name, err)
		c.String(http.StatusInternalServerError, "template error")
		return
	}
	c.Data(code, "text/html; charset=utf-8", buf.Bytes())
}

func (r *Renderer) Admin(c *gin.Context, code int, layout adminLayout) {
	layout.SiteTitle = r.siteTitle
	r.page(c, code, "admin_layout", layout)
}

func (r *Renderer) Public(c *gin.Context, code int, title string, body template.HTML) {
	r.page(c, code, "public_layout", publicLayout{SiteTitle: r.siteTitle, Title: title, Body: body})
}

// Error 以 HTML 错误页返回，状态码由错误类型决定
func (r *Renderer) Error(c *gin.Context, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		klog.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	msg := err.Error()
	if code == http.StatusInternalServerError {
		msg = "internal server error"
	}
	body, perr := r.Partial("error_page", gin.H{"Code": code, "Message": msg})
	if perr != nil {
		c.String(code, msg)
		return
	}
	r.Public(c, code, http.StatusText(code), body)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, service.ErrUnknownType):
		return http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, nonce.ErrInvalid):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrTitleRequired), errors.Is(err, service.ErrInvalidStatus), errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

var errBadRequest = errors.New("bad request")
