package cms

import (
	"context"

	"github.com/weibaohui/piepress/internal/eventbus"
)

// PageType 内置的独立页面类型，正文中的模板函数在公开访问时展开
const PageType = "page"

type corePlugin struct{}

// CorePlugin 注册平台自带的内容类型
func CorePlugin() Plugin {
	return corePlugin{}
}

func (corePlugin) Register(h *Host) {
	h.Admin.Subscribe(eventbus.AdminEventInit, func(ctx context.Context, _ eventbus.AdminEvent) error {
		h.Types.Register(PostType{
			Name: PageType,
			Labels: Labels{
				Name:         "Pages",
				SingularName: "Page",
				MenuName:     "Pages",
				AddNew:       "Add New",
				AddNewItem:   "Add New Page",
				EditItem:     "Edit Page",
				AllItems:     "All Pages",
				SearchItems:  "Search Pages",
				NotFound:     "No pages found.",
			},
			Public:            true,
			PubliclyQueryable: true,
			ShowUI:            true,
			ShowInMenu:        true,
			Hierarchical:      true,
			Supports:          []string{"title", "editor"},
		})
		return nil
	})
}
