package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"github.com/weibaohui/piepress/internal/model"
	"github.com/weibaohui/piepress/internal/pkg/database"
	"gorm.io/gorm"
)

// NewTestDB 创建一个按测试名隔离的内存数据库并完成迁移
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// PostOption 调整测试数据
type PostOption func(*model.Post)

func WithStatus(status string) PostOption {
	return func(p *model.Post) { p.Status = status }
}

func WithAuthor(author string) PostOption {
	return func(p *model.Post) { p.Author = author }
}

func WithContent(content string) PostOption {
	return func(p *model.Post) { p.Content = content }
}

func WithCreatedAt(ts time.Time) PostOption {
	return func(p *model.Post) { p.CreatedAt = ts }
}

// InsertPost 直接写库插入一条内容，附带可选属性
func InsertPost(t *testing.T, db *gorm.DB, postType, title string, meta map[string]string, opts ...PostOption) *model.Post {
	t.Helper()

	post := &model.Post{
		Type:   postType,
		Slug:   strings.ToLower(strings.ReplaceAll(title, " ", "-")),
		Title:  title,
		Status: model.PostStatusPublish,
		Author: "admin",
	}
	for _, opt := range opts {
		opt(post)
	}
	require.NoError(t, db.Create(post).Error)

	for k, v := range meta {
		require.NoError(t, db.Create(&model.PostMeta{PostID: post.ID, MetaKey: k, MetaValue: v}).Error)
	}
	return post
}
