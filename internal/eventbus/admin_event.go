package eventbus

import "github.com/weibaohui/piepress/internal/domain"

type AdminEventType string

const (
	AdminEventInit          AdminEventType = "init"
	AdminEventMenu          AdminEventType = "admin_menu"
	AdminEventAddMetaBoxes  AdminEventType = "add_meta_boxes"
	AdminEventEnqueueAssets AdminEventType = "admin_enqueue_scripts"
)

// AdminEvent 启动与后台页面相关的事件
type AdminEvent struct {
	Type AdminEventType
	// Hook 后台页面标识，仅 admin_enqueue_scripts 使用
	Hook   string
	Assets *domain.AssetQueue
}

type AdminEventHandler = Handler[AdminEvent]
type AdminEventBus = Bus[AdminEventType, AdminEvent]

func NewAdminEventBus() *AdminEventBus {
	return NewBus[AdminEventType, AdminEvent]()
}
