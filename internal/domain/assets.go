package domain

import "sync"

// AssetKind 资源类型
type AssetKind string

const (
	AssetStyle  AssetKind = "style"
	AssetScript AssetKind = "script"
)

// Asset 一个待加载的样式或脚本
type Asset struct {
	Handle string
	Kind   AssetKind
	Src    string
}

// AssetQueue 单次后台请求内收集的资源，同一 handle 只保留第一次登记
type AssetQueue struct {
	mu     sync.Mutex
	assets []Asset
	seen   map[string]bool
}

func (q *AssetQueue) enqueue(a Asset) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.seen == nil {
		q.seen = make(map[string]bool)
	}
	key := string(a.Kind) + ":" + a.Handle
	if q.seen[key] {
		return
	}
	q.seen[key] = true
	q.assets = append(q.assets, a)
}

func (q *AssetQueue) EnqueueStyle(handle, src string) {
	q.enqueue(Asset{Handle: handle, Kind: AssetStyle, Src: src})
}

func (q *AssetQueue) EnqueueScript(handle, src string) {
	q.enqueue(Asset{Handle: handle, Kind: AssetScript, Src: src})
}

// Styles 已登记的样式
func (q *AssetQueue) Styles() []Asset {
	return q.filter(AssetStyle)
}

// Scripts 已登记的脚本
func (q *AssetQueue) Scripts() []Asset {
	return q.filter(AssetScript)
}

func (q *AssetQueue) filter(kind AssetKind) []Asset {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []Asset
	for _, a := range q.assets {
		if a.Kind == kind {
			out = append(out, a)
		}
	}
	return out
}
