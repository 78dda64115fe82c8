package repository

import (
	"context"
	"errors"
	"time"

	"github.com/weibaohui/piepress/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type metaRepository struct {
	db *gorm.DB
}

func NewMetaRepository(db *gorm.DB) MetaRepository {
	return &metaRepository{db: db}
}

func (r *metaRepository) Get(ctx context.Context, postID uint, key string) (string, bool, error) {
	var meta model.PostMeta
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND meta_key = ?", postID, key).
		First(&meta).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return meta.MetaValue, true, nil
}

func (r *metaRepository) GetAll(ctx context.Context, postID uint) (map[string]string, error) {
	var metas []model.PostMeta
	if err := r.db.WithContext(ctx).Where("post_id = ?", postID).Find(&metas).Error; err != nil {
		return nil, err
	}
	values := make(map[string]string, len(metas))
	for _, m := range metas {
		values[m.MetaKey] = m.MetaValue
	}
	return values, nil
}

func (r *metaRepository) GetForPosts(ctx context.Context, postIDs []uint) (map[uint]map[string]string, error) {
	result := make(map[uint]map[string]string, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}

	var metas []model.PostMeta
	if err := r.db.WithContext(ctx).Where("post_id IN ?", postIDs).Find(&metas).Error; err != nil {
		return nil, err
	}
	for _, m := range metas {
		if result[m.PostID] == nil {
			result[m.PostID] = make(map[string]string)
		}
		result[m.PostID][m.MetaKey] = m.MetaValue
	}
	return result, nil
}

func (r *metaRepository) Upsert(ctx context.Context, postID uint, key, value string) error {
	meta := model.PostMeta{
		PostID:    postID,
		MetaKey:   key,
		MetaValue: value,
		UpdatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "post_id"}, {Name: "meta_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"meta_value", "updated_at"}),
	}).Create(&meta).Error
}
