package jwtauth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/weibaohui/piepress/internal/domain"
)

var ErrInvalidToken = errors.New("invalid token")

const (
	ClaimUsername = "username"
	ClaimRole     = "role"
)

// IssueToken 签发后台登录令牌，roles 为逗号分隔的角色串
func IssueToken(secret, username, roles string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		ClaimUsername: username,
		ClaimRole:     roles,
		"iat":         now.Unix(),
		"exp":         now.Add(ttl).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken 校验令牌并还原操作者
func ParseToken(secret, tokenString string) (*domain.Principal, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	username, _ := claims[ClaimUsername].(string)
	if username == "" {
		return nil, ErrInvalidToken
	}
	roles, _ := claims[ClaimRole].(string)
	return domain.NewPrincipal(username, roles), nil
}
