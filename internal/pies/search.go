package pies

import (
	"context"

	"github.com/weibaohui/piepress/internal/domain"
	"github.com/weibaohui/piepress/internal/eventbus"
	"github.com/weibaohui/piepress/internal/pkg/sanitize"
	"k8s.io/klog/v2"
)

// searchPiesByMeta 后台 pies 列表的关键字搜索改为匹配三个属性中的任意一个
func (r *Registrar) searchPiesByMeta(ctx context.Context, event eventbus.QueryEvent) error {
	q := event.Query
	if q == nil || !q.IsAdmin || !q.IsMainQuery || q.Type != PostType {
		return nil
	}

	term := sanitize.TextField(q.Search)
	if term == "" {
		return nil
	}

	q.Meta = domain.MetaQuery{
		Relation: domain.MetaRelationOr,
		Clauses: []domain.MetaClause{
			{Key: MetaPieType, Value: term, Compare: domain.MetaCompareLike},
			{Key: MetaDescription, Value: term, Compare: domain.MetaCompareLike},
			{Key: MetaIngredients, Value: term, Compare: domain.MetaCompareLike},
		},
	}
	// 关键字已由属性过滤接管，不再匹配标题和正文
	q.Search = ""

	klog.V(6).Infof("pies admin search rewritten to meta query: %q", term)
	return nil
}
