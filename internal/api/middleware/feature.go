package middleware

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/iaworks/iaworks_server/internal/pkg/response"
	"github.com/iaworks/iaworks_server/internal/service"
)

// RequireFeature 功能门禁中间件，必须挂在 Auth 之后。
// 套餐不包含该功能时会提示需要升级到哪些套餐。
func RequireFeature(authService *service.AuthService, featureService *service.FeatureService, feature string) gin.HandlerFunc {
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

		err = featureService.CheckAccess(user, feature, time.Now())
		if err == nil {
			c.Next()
			return
		}

		switch {
		case errors.Is(err, service.ErrPlanRequired):
			response.PlanRequiredError(c, "该功能需要订阅套餐")
		case errors.Is(err, service.ErrPlanExpired):
			response.PlanExpiredError(c, "订阅已过期，请续费")
		case errors.Is(err, service.ErrPlanNotActive):
			response.PlanExpiredError(c, "订阅未生效")
		case errors.Is(err, service.ErrFeatureDenied):
			plans := featureService.PlansWithFeature(feature)
			response.FeatureDeniedError(c,
				fmt.Sprintf("当前套餐不包含该功能，可升级到: %s", strings.Join(plans, ", ")))
		default:
			response.ServerError(c, "功能校验失败")
		}
		c.Abort()
	}
}
