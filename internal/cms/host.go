package cms

import (
	"context"
	"errors"
	"io"

	"github.com/weibaohui/piepress/internal/domain"
	"github.com/weibaohui/piepress/internal/eventbus"
	"github.com/weibaohui/piepress/internal/repository"
	"k8s.io/klog/v2"
)

// Host 内容平台：注册表、扩展点与查询引擎。插件只通过 Host 挂接回调，回调由 Host 在固定阶段调用。
type Host struct {
	Types      *TypeRegistry
	Menu       *MenuRegistry
	MetaBoxes  *MetaBoxRegistry
	Shortcodes *ShortcodeRegistry

	Posts   *eventbus.PostEventBus
	Queries *eventbus.QueryEventBus
	Admin   *eventbus.AdminEventBus

	postRepo repository.PostRepository
	metaRepo repository.MetaRepository
	listView ListView
}

// Plugin 插件在 Register 中订阅所需的扩展点
type Plugin interface {
	Register(h *Host)
}

func NewHost(postRepo repository.PostRepository, metaRepo repository.MetaRepository) *Host {
	return &Host{
		Types:      NewTypeRegistry(),
		Menu:       NewMenuRegistry(),
		MetaBoxes:  NewMetaBoxRegistry(),
		Shortcodes: NewShortcodeRegistry(),
		Posts:      eventbus.NewPostEventBus(),
		Queries:    eventbus.NewQueryEventBus(),
		Admin:      eventbus.NewAdminEventBus(),
		postRepo:   postRepo,
		metaRepo:   metaRepo,
	}
}

// Use 注册插件
func (h *Host) Use(plugins ...Plugin) {
	for _, p := range plugins {
		p.Register(h)
	}
}

// Boot 依次触发 init、admin_menu、add_meta_boxes；每次进程启动调用一次
func (h *Host) Boot(ctx context.Context) error {
	for _, t := range []eventbus.AdminEventType{
		eventbus.AdminEventInit,
		eventbus.AdminEventMenu,
		eventbus.AdminEventAddMetaBoxes,
	} {
		if err := h.Admin.Publish(ctx, t, eventbus.AdminEvent{Type: t}); err != nil {
			return err
		}
	}
	klog.V(6).Infof("host booted: %d content types registered", len(h.Types.All()))
	return nil
}

// SetListView 由后台界面层提供默认列表视图
func (h *Host) SetListView(v ListView) {
	h.listView = v
}

// RenderListView 渲染某内容类型的默认列表，插件的子页面可以直接委托给它
func (h *Host) RenderListView(ctx context.Context, w io.Writer, postType string, req ScreenRequest) error {
	if h.listView == nil {
		return errors.New("list view is not configured")
	}
	return h.listView(ctx, w, postType, req)
}

// EnqueueAdminAssets 为后台页面收集插件登记的样式与脚本
func (h *Host) EnqueueAdminAssets(ctx context.Context, hook string) *domain.AssetQueue {
	assets := &domain.AssetQueue{}
	if err := h.Admin.Publish(ctx, eventbus.AdminEventEnqueueAssets, eventbus.AdminEvent{
		Type:   eventbus.AdminEventEnqueueAssets,
		Hook:   hook,
		Assets: assets,
	}); err != nil {
		klog.Errorf("admin_enqueue_scripts handlers failed for %s: %v", hook, err)
	}
	return assets
}
