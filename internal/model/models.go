package model

import (
	"time"
)

// 内容状态
const (
	PostStatusDraft   = "draft"
	PostStatusPublish = "publish"
	PostStatusTrash   = "trash"
)

// Post 内容条目，所有内容类型共用一张表，通过 Type 区分
type Post struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	Type      string     `json:"type" gorm:"size:50;not null;index;uniqueIndex:idx_posts_type_slug"`
	Slug      string     `json:"slug" gorm:"size:200;not null;uniqueIndex:idx_posts_type_slug"`
	Title     string     `json:"title" gorm:"size:255;not null"`
	Content   string     `json:"content" gorm:"type:text"`
	Status    string     `json:"status" gorm:"size:20;default:draft;index"` // draft, publish, trash
	Author    string     `json:"author" gorm:"size:100;index"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Meta      []PostMeta `json:"meta,omitempty" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE;"`
}

// TableName 指定表名
func (Post) TableName() string {
	return "posts"
}

// IsPublished 是否已发布
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublish
}

// PostMeta 附加在内容条目上的键值属性
type PostMeta struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    uint      `json:"post_id" gorm:"not null;uniqueIndex:idx_post_meta_post_key"`
	MetaKey   string    `json:"meta_key" gorm:"size:191;not null;uniqueIndex:idx_post_meta_post_key;index"`
	MetaValue string    `json:"meta_value" gorm:"type:text"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定表名
func (PostMeta) TableName() string {
	return "post_meta"
}
