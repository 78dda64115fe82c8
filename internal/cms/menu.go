package cms

import (
	"context"
	"io"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/weibaohui/piepress/internal/domain"
)

// ScreenRequest 后台页面请求上下文
type ScreenRequest struct {
	Principal *domain.Principal
	// Vars 请求参数，如 s、paged
	Vars url.Values
	// Path 当前页面路径
	Path string
}

// PageRenderer 后台子页面渲染函数
type PageRenderer func(ctx context.Context, w io.Writer, req ScreenRequest) error

// ListView 内容类型的默认列表视图
type ListView func(ctx context.Context, w io.Writer, postType string, req ScreenRequest) error

// MenuPage 后台子菜单页面
type MenuPage struct {
	// ParentType 所属内容类型，页面挂在该类型的列表下
	ParentType string
	PageTitle  string
	MenuTitle  string
	Capability string
	Slug       string
	Render     PageRenderer
}

// ScreenID 页面标识，同时作为 admin_enqueue_scripts 的 hook 参数
func (p MenuPage) ScreenID() string {
	return ScreenID(p.ParentType, p.Slug)
}

// ScreenID 由父类型与页面 slug 组成，如 pies_page_manage_pies
func ScreenID(parentType, slug string) string {
	return strings.ToLower(parentType) + "_page_" + slug
}

// 内置后台页面标识
const (
	ScreenPostList = "edit.php"
	ScreenPostEdit = "post.php"
	ScreenPostNew  = "post-new.php"
)

type MenuRegistry struct {
	mu    sync.RWMutex
	pages map[string]MenuPage
}

func NewMenuRegistry() *MenuRegistry {
	return &MenuRegistry{pages: make(map[string]MenuPage)}
}

// AddSubmenuPage 按 slug 覆盖注册
func (r *MenuRegistry) AddSubmenuPage(p MenuPage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pages[p.Slug] = p
}

func (r *MenuRegistry) Get(slug string) (MenuPage, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.pages[slug]
	return p, ok
}

// ForType 某内容类型下的子页面，principal 无权限的页面被过滤
func (r *MenuRegistry) ForType(postType string, principal *domain.Principal) []MenuPage {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []MenuPage
	for _, p := range r.pages {
		if p.ParentType == postType && principal.Can(p.Capability) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out
}
