// Package pies 注册 "pies" 内容类型：后台编辑面板、属性保存、后台搜索扩展、
// 公开列表模板函数与后台资源加载。
package pies

import (
	"context"

	"github.com/weibaohui/piepress/internal/cms"
	"github.com/weibaohui/piepress/internal/eventbus"
	"github.com/weibaohui/piepress/internal/pkg/nonce"
	"github.com/weibaohui/piepress/internal/repository"
)

const (
	PostType = "pies"

	MetaPieType     = "_pie_type"
	MetaDescription = "_description"
	MetaIngredients = "_ingredients"

	// 编辑面板表单字段
	FieldPieType     = "pie_type"
	FieldDescription = "description"
	FieldIngredients = "ingredients"
	NonceField       = "pies_nonce"
	NonceAction      = "save_pie_meta"

	MenuSlug     = "manage_pies"
	MetaBoxID    = "pie_details_meta_box"
	ShortcodeTag = "pies"

	PerPage = 5
)

// ManageScreenID 管理页面的 hook 标识
var ManageScreenID = cms.ScreenID(PostType, MenuSlug)

type Registrar struct {
	host     *cms.Host
	metaRepo repository.MetaRepository
	nonces   *nonce.Manager
}

func NewRegistrar(metaRepo repository.MetaRepository, nonces *nonce.Manager) *Registrar {
	return &Registrar{
		metaRepo: metaRepo,
		nonces:   nonces,
	}
}

// Register 挂接全部扩展点，回调由 Host 调用
func (r *Registrar) Register(h *cms.Host) {
	r.host = h

	h.Admin.Subscribe(eventbus.AdminEventInit, r.onInit)
	h.Admin.Subscribe(eventbus.AdminEventMenu, r.onAdminMenu)
	h.Admin.Subscribe(eventbus.AdminEventAddMetaBoxes, r.onAddMetaBoxes)
	h.Admin.Subscribe(eventbus.AdminEventEnqueueAssets, r.enqueueAdminAssets)
	h.Posts.Subscribe(eventbus.PostEventSaved, r.savePieMeta)
	h.Queries.Subscribe(eventbus.QueryEventPreGetPosts, r.searchPiesByMeta)
	h.Shortcodes.Add(ShortcodeTag, r.displayPies)
}

func (r *Registrar) onInit(ctx context.Context, _ eventbus.AdminEvent) error {
	r.host.Types.Register(PostTypeDefinition())
	return nil
}
