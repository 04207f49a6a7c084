package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/iaworks/iaworks_server/internal/pkg/response"
	"github.com/iaworks/iaworks_server/internal/service"
)

// AdminOnly 管理员校验中间件，必须挂在 Auth 之后。
// 角色检查只在这里做一次，后面的处理器不再重复判断。
func AdminOnly(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			response.AuthError(c, "")
			c.Abort()
			return
		}

		user, err := authService.GetUserByID(userID)
		if err != nil {
			response.AuthError(c, "认证失败")
			c.Abort()
			return
		}

		if user.Role != "admin" {
			response.PermissionError(c, "需要管理员权限")
			c.Abort()
			return
		}

		c.Next()
	}
}
