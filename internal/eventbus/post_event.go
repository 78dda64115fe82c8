package eventbus

import (
	"net/url"

	"github.com/weibaohui/piepress/internal/domain"
	"github.com/weibaohui/piepress/internal/model"
)

type PostEventType string

const (
	PostEventSaved   PostEventType = "save_post"
	PostEventDeleted PostEventType = "delete_post"
)

// PostEvent 内容条目生命周期事件
type PostEvent struct {
	Type PostEventType
	Post *model.Post
	// Form 原始提交表单，删除事件为空
	Form      url.Values
	Principal *domain.Principal
	Autosave  bool
	Update    bool // 更新已有条目而非新建
}

type PostEventHandler = Handler[PostEvent]
type PostEventBus = Bus[PostEventType, PostEvent]

func NewPostEventBus() *PostEventBus {
	return NewBus[PostEventType, PostEvent]()
}
