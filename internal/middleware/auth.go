package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/weibaohui/piepress/internal/domain"
	"github.com/weibaohui/piepress/internal/pkg/jwtauth"
)

const principalKey = "principal"

// AuthMiddleware 登录校验，令牌取自 Authorization: Bearer 或登录 cookie
func AuthMiddleware(secret, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" && cookieName != "" {
			token, _ = c.Cookie(cookieName)
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}

		principal, err := jwtauth.ParseToken(secret, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		// 设置信息传递，后面才能从ctx中获取到用户信息
		c.Set(principalKey, principal)
		c.Next()
	}
}

// RequireCapability 权限校验，须在 AuthMiddleware 之后使用
func RequireCapability(capability string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentPrincipal(c).Can(capability) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "permission denied: " + capability})
			return
		}
		c.Next()
	}
}

// CurrentPrincipal 当前登录用户，未登录返回 nil
func CurrentPrincipal(c *gin.Context) *domain.Principal {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*domain.Principal)
	return p
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}
