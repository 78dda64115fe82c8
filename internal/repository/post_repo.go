package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/weibaohui/piepress/internal/domain"
	"github.com/weibaohui/piepress/internal/model"
	"gorm.io/gorm"
)

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) Get(ctx context.Context, id uint) (*model.Post, error) {
	var post model.Post
	err := r.db.WithContext(ctx).First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetBySlug(ctx context.Context, postType, slug string) (*model.Post, error) {
	var post model.Post
	err := r.db.WithContext(ctx).
		Where("type = ? AND slug = ?", postType, slug).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) Save(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Omit("Meta").Save(post).Error
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&model.PostMeta{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *postRepository) SlugExists(ctx context.Context, postType, slug string, excludeID uint) (bool, error) {
	var count int64
	tx := r.db.WithContext(ctx).Model(&model.Post{}).
		Where("type = ? AND slug = ?", postType, slug)
	if excludeID > 0 {
		tx = tx.Where("id <> ?", excludeID)
	}
	if err := tx.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *postRepository) Query(ctx context.Context, q *domain.PostQuery) ([]model.Post, int64, error) {
	var total int64
	if err := r.scoped(ctx, q).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}
	if total == 0 {
		return nil, 0, nil
	}

	tx := r.scoped(ctx, q).Order("created_at DESC, id DESC")
	if q.PerPage > 0 {
		tx = tx.Limit(q.PerPage).Offset(q.Offset())
	}

	var posts []model.Post
	if err := tx.Find(&posts).Error; err != nil {
		return nil, 0, fmt.Errorf("find posts: %w", err)
	}
	return posts, total, nil
}

// scoped 构造查询条件，Count 与 Find 各自使用一份新的语句
func (r *postRepository) scoped(ctx context.Context, q *domain.PostQuery) *gorm.DB {
	tx := r.db.WithContext(ctx).Model(&model.Post{})
	if q.Type != "" {
		tx = tx.Where("type = ?", q.Type)
	}

	switch q.Status {
	case "", domain.StatusAny:
		tx = tx.Where("status <> ?", model.PostStatusTrash)
	default:
		tx = tx.Where("status = ?", q.Status)
	}

	if s := strings.TrimSpace(q.Search); s != "" {
		pattern := containsPattern(s)
		tx = tx.Where("(LOWER(title) LIKE ? ESCAPE '"+likeEscape+"' OR LOWER(content) LIKE ? ESCAPE '"+likeEscape+"')", pattern, pattern)
	}

	if !q.Meta.IsEmpty() {
		cond, args := metaCondition(q.Meta)
		tx = tx.Where(cond, args...)
	}
	return tx
}

// metaCondition 将属性过滤条件翻译为 EXISTS 子查询的组合
func metaCondition(mq domain.MetaQuery) (string, []any) {
	glue := " AND "
	if mq.Relation == domain.MetaRelationOr {
		glue = " OR "
	}

	parts := make([]string, 0, len(mq.Clauses))
	args := make([]any, 0, len(mq.Clauses)*2)
	for _, c := range mq.Clauses {
		switch c.Compare {
		case domain.MetaCompareEqual:
			parts = append(parts, "EXISTS (SELECT 1 FROM post_meta pm WHERE pm.post_id = posts.id AND pm.meta_key = ? AND pm.meta_value = ?)")
			args = append(args, c.Key, c.Value)
		default:
			parts = append(parts, "EXISTS (SELECT 1 FROM post_meta pm WHERE pm.post_id = posts.id AND pm.meta_key = ? AND LOWER(pm.meta_value) LIKE ? ESCAPE '"+likeEscape+"')")
			args = append(args, c.Key, containsPattern(c.Value))
		}
	}
	return "(" + strings.Join(parts, glue) + ")", args
}
