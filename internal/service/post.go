package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/weibaohui/piepress/internal/cms"
	"github.com/weibaohui/piepress/internal/domain"
	"github.com/weibaohui/piepress/internal/eventbus"
	"github.com/weibaohui/piepress/internal/model"
	"github.com/weibaohui/piepress/internal/repository"
	"k8s.io/klog/v2"
)

var (
	ErrForbidden     = errors.New("permission denied")
	ErrUnknownType   = errors.New("unknown post type")
	ErrTitleRequired = errors.New("title is required")
	ErrInvalidStatus = errors.New("invalid post status")
)

// PostService 内容条目的保存、自动保存与删除，完成后发布生命周期事件
type PostService struct {
	host     *cms.Host
	postRepo repository.PostRepository
}

func NewPostService(host *cms.Host, postRepo repository.PostRepository) *PostService {
	return &PostService{
		host:     host,
		postRepo: postRepo,
	}
}

// SavePostRequest 后台编辑表单提交
type SavePostRequest struct {
	ID      uint // 0 表示新建
	Type    string
	Title   string
	Content string
	Status  string
	// Form 完整的原始表单，原样交给 save_post 订阅者
	Form      url.Values
	Principal *domain.Principal
}

func (s *PostService) Get(ctx context.Context, id uint) (*model.Post, error) {
	return s.postRepo.Get(ctx, id)
}

// GetPublished 按类型和 slug 读取已发布条目
func (s *PostService) GetPublished(ctx context.Context, postType, slug string) (*model.Post, error) {
	post, err := s.postRepo.GetBySlug(ctx, postType, slug)
	if err != nil {
		return nil, err
	}
	if !post.IsPublished() {
		return nil, repository.ErrNotFound
	}
	return post, nil
}

func (s *PostService) Save(ctx context.Context, req SavePostRequest) (*model.Post, error) {
	p := req.Principal
	if !p.Can(domain.CapEditPosts) {
		return nil, ErrForbidden
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	status := req.Status
	if status == "" {
		status = model.PostStatusDraft
	}
	if status != model.PostStatusDraft && status != model.PostStatusPublish {
		return nil, ErrInvalidStatus
	}

	var post *model.Post
	update := req.ID > 0
	if update {
		existing, err := s.postRepo.Get(ctx, req.ID)
		if err != nil {
			return nil, err
		}
		if !p.CanEditPost(existing.Author) {
			return nil, ErrForbidden
		}
		post = existing
	} else {
		if _, ok := s.host.Types.Get(req.Type); !ok {
			return nil, ErrUnknownType
		}
		post = &model.Post{
			Type:      req.Type,
			Author:    p.Username,
			CreatedAt: time.Now(),
		}
	}

	if status == model.PostStatusPublish && post.Status != model.PostStatusPublish && !p.Can(domain.CapPublishPosts) {
		return nil, ErrForbidden
	}

	post.Title = title
	post.Content = req.Content
	post.Status = status
	post.UpdatedAt = time.Now()

	if post.Slug == "" {
		slug, err := s.uniqueSlug(ctx, post.Type, title, post.ID)
		if err != nil {
			return nil, err
		}
		post.Slug = slug
	}

	var err error
	if update {
		err = s.postRepo.Save(ctx, post)
	} else {
		err = s.postRepo.Create(ctx, post)
	}
	if err != nil {
		return nil, fmt.Errorf("save post: %w", err)
	}

	s.publish(ctx, eventbus.PostEvent{
		Type:      eventbus.PostEventSaved,
		Post:      post,
		Form:      req.Form,
		Principal: p,
		Update:    update,
	})
	return post, nil
}

// Autosave 只更新标题与正文，不改变状态；订阅者收到 Autosave=true
func (s *PostService) Autosave(ctx context.Context, id uint, title, content string, form url.Values, p *domain.Principal) (*model.Post, error) {
	post, err := s.postRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.CanEditPost(post.Author) {
		return nil, ErrForbidden
	}

	if t := strings.TrimSpace(title); t != "" {
		post.Title = t
	}
	post.Content = content
	post.UpdatedAt = time.Now()
	if err := s.postRepo.Save(ctx, post); err != nil {
		return nil, fmt.Errorf("autosave post: %w", err)
	}

	s.publish(ctx, eventbus.PostEvent{
		Type:      eventbus.PostEventSaved,
		Post:      post,
		Form:      form,
		Principal: p,
		Autosave:  true,
		Update:    true,
	})
	return post, nil
}

// Delete 删除条目，属性记录随条目一并删除
func (s *PostService) Delete(ctx context.Context, id uint, p *domain.Principal) error {
	post, err := s.postRepo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !p.CanDeletePost(post.Author) {
		return ErrForbidden
	}
	if err := s.postRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	s.publish(ctx, eventbus.PostEvent{
		Type:      eventbus.PostEventDeleted,
		Post:      post,
		Principal: p,
	})
	return nil
}

// publish 订阅者的错误只记录，不影响主流程
func (s *PostService) publish(ctx context.Context, event eventbus.PostEvent) {
	if err := s.host.Posts.Publish(ctx, event.Type, event); err != nil {
		klog.Errorf("%s handlers failed for post %d: %v", event.Type, event.Post.ID, err)
	}
}

func (s *PostService) uniqueSlug(ctx context.Context, postType, title string, excludeID uint) (string, error) {
	base := Slugify(title)
	if base == "" {
		base = postType
	}
	slug := base
	for i := 2; ; i++ {
		exists, err := s.postRepo.SlugExists(ctx, postType, slug, excludeID)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

// Slugify 转小写，字母数字以外的字符折叠为 '-'
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
