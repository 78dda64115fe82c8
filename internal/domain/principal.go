package domain

import (
	"slices"
	"strings"
)

// 角色
const (
	RoleAdministrator = "administrator"
	RoleEditor        = "editor"
	RoleAuthor        = "author"
	RoleSubscriber    = "subscriber"
)

// 权限
const (
	CapManageOptions   = "manage_options"
	CapEditPosts       = "edit_posts"
	CapEditOthersPosts = "edit_others_posts"
	CapPublishPosts    = "publish_posts"
	CapDeletePosts     = "delete_posts"
	CapRead            = "read"
)

var roleCapabilities = map[string][]string{
	RoleAdministrator: {CapManageOptions, CapEditPosts, CapEditOthersPosts, CapPublishPosts, CapDeletePosts, CapRead},
	RoleEditor:        {CapEditPosts, CapEditOthersPosts, CapPublishPosts, CapDeletePosts, CapRead},
	RoleAuthor:        {CapEditPosts, CapPublishPosts, CapDeletePosts, CapRead},
	RoleSubscriber:    {CapRead},
}

// Principal 当前操作者
type Principal struct {
	Username string
	Roles    []string
}

// NewPrincipal 从逗号分隔的角色串构造
func NewPrincipal(username, roles string) *Principal {
	p := &Principal{Username: username}
	for _, r := range strings.Split(roles, ",") {
		if r = strings.TrimSpace(r); r != "" {
			p.Roles = append(p.Roles, r)
		}
	}
	return p
}

// Can 是否拥有某项权限，nil 表示游客
func (p *Principal) Can(capability string) bool {
	if p == nil {
		return false
	}
	for _, role := range p.Roles {
		if slices.Contains(roleCapabilities[role], capability) {
			return true
		}
	}
	return false
}

// CanEditPost 是否可以编辑指定作者的条目
func (p *Principal) CanEditPost(author string) bool {
	if !p.Can(CapEditPosts) {
		return false
	}
	return p.Username == author || p.Can(CapEditOthersPosts)
}

// CanDeletePost 是否可以删除指定作者的条目
func (p *Principal) CanDeletePost(author string) bool {
	if !p.Can(CapDeletePosts) {
		return false
	}
	return p.Username == author || p.Can(CapEditOthersPosts)
}

// Name 用户名，游客返回空串
func (p *Principal) Name() string {
	if p == nil {
		return ""
	}
	return p.Username
}
