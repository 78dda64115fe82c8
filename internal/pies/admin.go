package pies

import (
	"context"
	"io"

	"github.com/weibaohui/piepress/internal/cms"
	"github.com/weibaohui/piepress/internal/domain"
	"github.com/weibaohui/piepress/internal/eventbus"
)

func (r *Registrar) onAdminMenu(ctx context.Context, _ eventbus.AdminEvent) error {
	r.host.Menu.AddSubmenuPage(cms.MenuPage{
		ParentType: PostType,
		PageTitle:  "Manage Pies",
		MenuTitle:  "Manage Pies",
		Capability: domain.CapManageOptions,
		Slug:       MenuSlug,
		Render:     r.renderPiesPage,
	})
	return nil
}

// renderPiesPage 管理页面直接复用默认列表
func (r *Registrar) renderPiesPage(ctx context.Context, w io.Writer, req cms.ScreenRequest) error {
	return r.host.RenderListView(ctx, w, PostType, req)
}

func (r *Registrar) enqueueAdminAssets(ctx context.Context, event eventbus.AdminEvent) error {
	if event.Hook != ManageScreenID || event.Assets == nil {
		return nil
	}
	event.Assets.EnqueueStyle("pies-admin", "/admin/assets/pies-admin.css")
	event.Assets.EnqueueScript("pies-admin", "/admin/assets/pies-admin.js")
	return nil
}
