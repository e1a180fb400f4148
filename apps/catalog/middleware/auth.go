package middleware

import (
	"net/http"
	"strings"

	"go-modelsdemo/pkg/jwt"
	"go-modelsdemo/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	KeyUserId   = "userId"
	KeyUsername = "username"
	KeyIsStaff  = "isStaff"
)

// Auth 解析 Bearer Token。没有 Authorization 头的请求按匿名用户放行，
// 格式错误或无效的 Token 直接返回 401。
func Auth(tokens *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 获取 Header 里的 Authorization
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		// 2. 格式必须是 "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.AbortError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}

		// 3. 解析 Token
		claims, err := tokens.ParseToken(parts[1])
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, "Invalid token")
			return
		}

		// 4. 用户信息存入 Context，供后续 Handler 使用
		c.Set(KeyUserId, claims.UserId)
		c.Set(KeyUsername, claims.Username)
		c.Set(KeyIsStaff, claims.IsStaff)

		c.Next()
	}
}

// RequireStaff 后台接口：未登录 401，非员工 403
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(KeyUserId); !ok {
			response.AbortError(c, http.StatusUnauthorized, "Authorization header required")
			return
		}
		if !IsStaff(c) {
			response.AccessDenied(c)
			return
		}
		c.Next()
	}
}

// IsStaff 当前请求是否带有员工 Token
func IsStaff(c *gin.Context) bool {
	return c.GetBool(KeyIsStaff)
}
