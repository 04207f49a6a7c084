package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/iaworks/iaworks_server/internal/pkg/jwt"
	"github.com/iaworks/iaworks_server/internal/pkg/response"
)

// UserIDKey 认证通过后写入 gin.Context 的用户 ID 键
const UserIDKey = "userID"

// bearerToken 从 Authorization 头中取出 Bearer token
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	token := strings.TrimPrefix(header, "Bearer ")
	if token == header {
		return "", false
	}
	return token, true
}

// Auth JWT 认证中间件，解析失败直接中断请求
func Auth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			response.AuthError(c, "请先登录")
			c.Abort()
			return
		}

		claims, err := jwt.ParseToken(token, jwtSecret)
		if err != nil {
			response.AuthError(c, "登录已失效，请重新登录")
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Next()
	}
}

// OptionalAuth 可选认证。token 有效则注入用户 ID，否则按匿名请求放行，
// 用于优惠券校验这类登录与否都可访问的接口。
func OptionalAuth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if claims, err := jwt.ParseToken(token, jwtSecret); err == nil {
				c.Set(UserIDKey, claims.UserID)
			}
		}
		c.Next()
	}
}

// GetUserID 从上下文获取认证用户 ID
func GetUserID(c *gin.Context) (int64, bool) {
	v, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
