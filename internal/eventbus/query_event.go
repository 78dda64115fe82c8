package eventbus

import "github.com/weibaohui/piepress/internal/domain"

type QueryEventType string

const (
	QueryEventPreGetPosts QueryEventType = "pre_get_posts"
)

// QueryEvent 查询执行前事件，处理函数可以直接修改 Query
type QueryEvent struct {
	Type  QueryEventType
	Query *domain.PostQuery
}

type QueryEventHandler = Handler[QueryEvent]
type QueryEventBus = Bus[QueryEventType, QueryEvent]

func NewQueryEventBus() *QueryEventBus {
	return NewBus[QueryEventType, QueryEvent]()
}
