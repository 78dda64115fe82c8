package cms

import (
	"sort"
	"sync"
)

// Labels 内容类型在后台展示用的文案
type Labels struct {
	Name            string
	SingularName    string
	MenuName        string
	NameAdminBar    string
	AddNew          string
	AddNewItem      string
	NewItem         string
	EditItem        string
	ViewItem        string
	AllItems        string
	SearchItems     string
	NotFound        string
	NotFoundInTrash string
}

// PostType 内容类型声明
type PostType struct {
	Name              string
	Labels            Labels
	Public            bool
	PubliclyQueryable bool
	ShowUI            bool
	ShowInMenu        bool
	HasArchive        bool
	Hierarchical      bool
	// RewriteSlug 公开访问路径前缀，为空时使用 Name
	RewriteSlug string
	Supports    []string
}

// Slug 公开访问路径前缀
func (t PostType) Slug() string {
	if t.RewriteSlug != "" {
		return t.RewriteSlug
	}
	return t.Name
}

// TypeRegistry 内容类型注册表，按名称覆盖注册，重复注册是安全的
type TypeRegistry struct {
	mu    sync.RWMutex
	types map[string]PostType
}

func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{types: make(map[string]PostType)}
}

func (r *TypeRegistry) Register(t PostType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[t.Name] = t
}

func (r *TypeRegistry) Get(name string) (PostType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[name]
	return t, ok
}

// All 按名称排序返回全部类型
func (r *TypeRegistry) All() []PostType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]PostType, 0, len(r.types))
	for _, t := range r.types {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
