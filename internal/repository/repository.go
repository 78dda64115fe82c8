package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/weibaohui/piepress/internal/domain"
	"github.com/weibaohui/piepress/internal/model"
)

// ErrNotFound 记录不存在错误
var ErrNotFound = errors.New("record not found")

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	Get(ctx context.Context, id uint) (*model.Post, error)
	GetBySlug(ctx context.Context, postType, slug string) (*model.Post, error)
	Save(ctx context.Context, post *model.Post) error
	// Delete 删除内容条目及其全部属性
	Delete(ctx context.Context, id uint) error
	SlugExists(ctx context.Context, postType, slug string, excludeID uint) (bool, error)
	// Query 按查询对象检索，返回当前页数据和满足条件的总数
	Query(ctx context.Context, q *domain.PostQuery) ([]model.Post, int64, error)
}

type MetaRepository interface {
	// Get 读取单个属性，found 为 false 表示从未保存过
	Get(ctx context.Context, postID uint, key string) (value string, found bool, err error)
	GetAll(ctx context.Context, postID uint) (map[string]string, error)
	// GetForPosts 批量读取多个条目的属性
	GetForPosts(ctx context.Context, postIDs []uint) (map[uint]map[string]string, error)
	// Upsert 按 (post_id, meta_key) 创建或覆盖
	Upsert(ctx context.Context, postID uint, key, value string) error
}

// likeEscape LIKE 通配符转义字符，'!' 在 sqlite 与 mysql 的字符串字面量中都无需再转义
const likeEscape = "!"

// containsPattern 生成大小写不敏感的子串匹配模式
func containsPattern(value string) string {
	r := strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")
	return "%" + r.Replace(strings.ToLower(value)) + "%"
}
