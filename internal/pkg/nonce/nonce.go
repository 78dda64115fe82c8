// Package nonce 实现表单防伪令牌。令牌是绑定动作名与用户的短期 JWT，
// 被 Consume 之后同一令牌不能再次通过校验。
package nonce

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

var ErrInvalid = errors.New("invalid or expired nonce")

type claims struct {
	Action string `json:"act"`
	jwt.RegisteredClaims
}

type Manager struct {
	secret []byte
	ttl    time.Duration
	used   *gocache.Cache
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		used:   gocache.New(ttl, 10*time.Minute),
	}
}

// Create 为指定动作和用户签发令牌
func (m *Manager) Create(action, user string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Action: action,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign nonce: %w", err)
	}
	return signed, nil
}

// Ticket 校验通过的令牌
type Ticket struct {
	ID        string
	Action    string
	User      string
	ExpiresAt time.Time
}

// Verify 校验令牌是否属于该动作与用户且未被使用；校验本身不消耗令牌
func (m *Manager) Verify(token, action, user string) (*Ticket, error) {
	if token == "" {
		return nil, ErrInvalid
	}

	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return nil, ErrInvalid
	}
	if c.Action != action || c.Subject != user || c.ID == "" {
		return nil, ErrInvalid
	}
	if _, used := m.used.Get(c.ID); used {
		return nil, ErrInvalid
	}
	return &Ticket{ID: c.ID, Action: c.Action, User: c.Subject, ExpiresAt: c.ExpiresAt.Time}, nil
}

// Consume 作废令牌，同一令牌只有第一次调用成功
func (m *Manager) Consume(t *Ticket) error {
	remaining := time.Until(t.ExpiresAt)
	if remaining <= 0 {
		return ErrInvalid
	}
	// Add 在 key 已存在时返回错误，并发提交只有一次成功
	if err := m.used.Add(t.ID, struct{}{}, remaining); err != nil {
		return ErrInvalid
	}
	return nil
}
