package domain

import "math"

// MetaRelation 多个属性过滤条件之间的组合方式
type MetaRelation string

const (
	MetaRelationAnd MetaRelation = "AND"
	MetaRelationOr  MetaRelation = "OR"
)

// MetaCompare 属性值比较方式
type MetaCompare string

const (
	MetaCompareEqual MetaCompare = "="
	MetaCompareLike  MetaCompare = "LIKE" // 大小写不敏感的子串匹配
)

// StatusAny 不按状态过滤
const StatusAny = "any"

// MetaClause 单个属性过滤条件
type MetaClause struct {
	Key     string
	Value   string
	Compare MetaCompare
}

// MetaQuery 属性过滤条件列表，Relation 为空时按 AND 组合
type MetaQuery struct {
	Relation MetaRelation
	Clauses  []MetaClause
}

// IsEmpty 没有任何条件
func (m MetaQuery) IsEmpty() bool {
	return len(m.Clauses) == 0
}

// Add 追加一个条件
func (m *MetaQuery) Add(clause MetaClause) {
	m.Clauses = append(m.Clauses, clause)
}

// PostQuery 内容查询对象。查询执行前会经过 pre_get_posts 钩子，钩子可以直接修改字段。
type PostQuery struct {
	Type    string
	Status  string // 为空或 StatusAny 时不过滤（trash 除外）
	PerPage int    // <=0 表示不分页
	Page    int    // 从 1 开始
	Search  string // 标题/正文的关键字搜索，钩子可以清空它以替换默认搜索
	Meta    MetaQuery

	// IsAdmin 查询来自管理后台
	IsAdmin bool
	// IsMainQuery 查询是当前页面的主查询，而不是模板函数等发起的二级查询
	IsMainQuery bool
}

// Offset 计算分页偏移
func (q *PostQuery) Offset() int {
	if q.PerPage <= 0 || q.Page <= 1 {
		return 0
	}
	if q.Page-1 > math.MaxInt/q.PerPage {
		return math.MaxInt
	}
	return (q.Page - 1) * q.PerPage
}

// MaxPages 根据总数计算总页数
func (q *PostQuery) MaxPages(total int64) int {
	if total <= 0 {
		return 0
	}
	if q.PerPage <= 0 {
		return 1
	}
	return int((total + int64(q.PerPage) - 1) / int64(q.PerPage))
}
