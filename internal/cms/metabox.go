package cms

import (
	"context"
	"io"
	"sort"
	"sync"

	"github.com/weibaohui/piepress/internal/domain"
	"github.com/weibaohui/piepress/internal/model"
)

// MetaBoxRenderer 编辑面板渲染函数
type MetaBoxRenderer func(ctx context.Context, w io.Writer, post *model.Post, principal *domain.Principal) error

type MetaBoxContext string

const (
	MetaBoxNormal   MetaBoxContext = "normal"
	MetaBoxSide     MetaBoxContext = "side"
	MetaBoxAdvanced MetaBoxContext = "advanced"
)

type MetaBoxPriority string

const (
	MetaBoxHigh    MetaBoxPriority = "high"
	MetaBoxDefault MetaBoxPriority = "default"
	MetaBoxLow     MetaBoxPriority = "low"
)

var (
	contextOrder  = map[MetaBoxContext]int{MetaBoxNormal: 0, MetaBoxAdvanced: 1, MetaBoxSide: 2}
	priorityOrder = map[MetaBoxPriority]int{MetaBoxHigh: 0, MetaBoxDefault: 1, MetaBoxLow: 2}
)

// MetaBox 编辑页面上的附加面板
type MetaBox struct {
	ID       string
	Title    string
	PostType string
	Context  MetaBoxContext
	Priority MetaBoxPriority
	Render   MetaBoxRenderer
}

type MetaBoxRegistry struct {
	mu    sync.RWMutex
	boxes map[string]MetaBox
	seq   map[string]int
	next  int
}

func NewMetaBoxRegistry() *MetaBoxRegistry {
	return &MetaBoxRegistry{boxes: make(map[string]MetaBox), seq: make(map[string]int)}
}

// Add 以 PostType+ID 为键覆盖注册
func (r *MetaBoxRegistry) Add(box MetaBox) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := box.PostType + "/" + box.ID
	if _, ok := r.seq[key]; !ok {
		r.seq[key] = r.next
		r.next++
	}
	r.boxes[key] = box
}

// ForType 某类型的面板，按 context、priority、注册顺序排序
func (r *MetaBoxRegistry) ForType(postType string) []MetaBox {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []MetaBox
	for _, b := range r.boxes {
		if b.PostType == postType {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if contextOrder[a.Context] != contextOrder[b.Context] {
			return contextOrder[a.Context] < contextOrder[b.Context]
		}
		if priorityOrder[a.Priority] != priorityOrder[b.Priority] {
			return priorityOrder[a.Priority] < priorityOrder[b.Priority]
		}
		return r.seq[a.PostType+"/"+a.ID] < r.seq[b.PostType+"/"+b.ID]
	})
	return out
}
