package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/iaworks/iaworks_server/internal/api/middleware"
	"github.com/iaworks/iaworks_server/internal/model/dto"
	"github.com/iaworks/iaworks_server/internal/pkg/response"
	"github.com/iaworks/iaworks_server/internal/service"
)

type SubscriptionHandler struct {
	subscriptionService *service.SubscriptionService
	featureService      *service.FeatureService
	couponService       *service.CouponService
	authService         *service.AuthService
}

func NewSubscriptionHandler(
	subscriptionService *service.SubscriptionService,
	featureService *service.FeatureService,
	couponService *service.CouponService,
	authService *service.AuthService,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
		featureService:      featureService,
		couponService:       couponService,
		authService:         authService,
	}
}

// GetCurrent 当前订阅信息
// GET /api/v1/subscription
func (h *SubscriptionHandler) GetCurrent(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	info, err := h.subscriptionService.GetCurrentPlan(userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, info)
}

// ChangePlan 切换套餐
// PUT /api/v1/subscription/plan
func (h *SubscriptionHandler) ChangePlan(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.ChangePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	err := h.subscriptionService.ChangePlan(userID, req.NewPlan)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPlan):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrNoActivePlan):
			response.PlanRequiredError(c, err.Error())
		case errors.Is(err, service.ErrSamePlan):
			response.DuplicateError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "套餐已切换", nil)
}

// Renew 续期订阅：周期从当前时间重新起算，cancelled 状态会被重新激活
// POST /api/v1/subscription/renew
func (h *SubscriptionHandler) Renew(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	end, err := h.subscriptionService.RenewPlan(userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoActivePlan):
			response.PlanRequiredError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "订阅已续期", gin.H{
		"plan_end_date": end.Format("2006-01-02"),
	})
}

// Cancel 取消订阅
// POST /api/v1/subscription/cancel
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	err := h.subscriptionService.CancelPlan(userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoActivePlan):
			response.PlanRequiredError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "订阅已取消，已付周期内仍可使用", nil)
}

// Features 当前可用的功能列表
// GET /api/v1/subscription/features
func (h *SubscriptionHandler) Features(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	user, err := h.authService.GetUserByID(userID)
	if err != nil {
		response.AuthError(c, "")
		return
	}

	features := h.featureService.ListAccessible(user, time.Now())
	response.Success(c, gin.H{"features": features})
}

// ValidateCoupon 校验优惠码并返回折后价
// POST /api/v1/subscription/validate-coupon
func (h *SubscriptionHandler) ValidateCoupon(c *gin.Context) {
	var req dto.ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	result, err := h.couponService.Validate(req.Code, req.Plan)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPlan):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, result)
}
