package cms

import (
	"context"
	"fmt"

	"github.com/weibaohui/piepress/internal/domain"
	"github.com/weibaohui/piepress/internal/eventbus"
	"github.com/weibaohui/piepress/internal/model"
	"k8s.io/klog/v2"
)

// QueryResult 一次查询的结果页
type QueryResult struct {
	Posts    []model.Post
	Total    int64
	Page     int
	PerPage  int
	MaxPages int
	meta     map[uint]map[string]string
}

// HasPosts 是否有命中
func (r *QueryResult) HasPosts() bool {
	return len(r.Posts) > 0
}

// Meta 读取结果页内某条目的属性，不存在时返回空串
func (r *QueryResult) Meta(postID uint, key string) string {
	return r.meta[postID][key]
}

// Loop 返回一个只在调用方作用域内有效的游标
func (r *QueryResult) Loop() *Loop {
	return &Loop{result: r, index: -1}
}

// Loop 结果游标
//
//	loop := result.Loop()
//	for loop.Next() {
//		post := loop.Post()
//	}
type Loop struct {
	result *QueryResult
	index  int
}

func (l *Loop) Next() bool {
	if l.index+1 >= len(l.result.Posts) {
		return false
	}
	l.index++
	return true
}

func (l *Loop) Post() *model.Post {
	return &l.result.Posts[l.index]
}

func (l *Loop) Meta(key string) string {
	return l.result.Meta(l.Post().ID, key)
}

// Query 先触发 pre_get_posts 让插件改写查询，再执行并批量加载属性
func (h *Host) Query(ctx context.Context, q *domain.PostQuery) (*QueryResult, error) {
	if q.Page < 1 {
		q.Page = 1
	}

	if err := h.Queries.Publish(ctx, eventbus.QueryEventPreGetPosts, eventbus.QueryEvent{
		Type:  eventbus.QueryEventPreGetPosts,
		Query: q,
	}); err != nil {
		klog.Errorf("pre_get_posts handlers failed: %v", err)
	}

	posts, total, err := h.postRepo.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}

	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	meta, err := h.metaRepo.GetForPosts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load post meta: %w", err)
	}

	klog.V(6).Infof("query type=%s status=%s page=%d search=%q meta=%d clauses: %d hits", q.Type, q.Status, q.Page, q.Search, len(q.Meta.Clauses), total)

	return &QueryResult{
		Posts:    posts,
		Total:    total,
		Page:     q.Page,
		PerPage:  q.PerPage,
		MaxPages: q.MaxPages(total),
		meta:     meta,
	}, nil
}
