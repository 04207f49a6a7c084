package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/iaworks/iaworks_server/internal/api/middleware"
	"github.com/iaworks/iaworks_server/internal/model/dto"
	"github.com/iaworks/iaworks_server/internal/pkg/response"
	"github.com/iaworks/iaworks_server/internal/service"
)

type AdminHandler struct {
	adminService    *service.AdminService
	paymentService  *service.PaymentService
	approvalService *service.ApprovalService
	couponService   *service.CouponService
	auditService    *service.AuditService
}

func NewAdminHandler(
	adminService *service.AdminService,
	paymentService *service.PaymentService,
	approvalService *service.ApprovalService,
	couponService *service.CouponService,
	auditService *service.AuditService,
) *AdminHandler {
	return &AdminHandler{
		adminService:    adminService,
		paymentService:  paymentService,
		approvalService: approvalService,
		couponService:   couponService,
		auditService:    auditService,
	}
}

// ListUsers 用户列表
// GET /api/v1/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.adminService.ListUsers()
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, gin.H{"users": users})
}

// ToggleUserStatus 挂起/恢复用户
// POST /api/v1/admin/users/toggle-status
func (h *AdminHandler) ToggleUserStatus(c *gin.Context) {
	adminID, _ := middleware.GetUserID(c)

	var req dto.ToggleUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	status, err := h.adminService.ToggleUserStatus(adminID, req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrCannotModifyAdmin):
			response.PermissionError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "状态已更新", gin.H{"plan_status": status})
}

// ChangeUserPlan 为用户开通套餐
// POST /api/v1/admin/users/change-plan
func (h *AdminHandler) ChangeUserPlan(c *gin.Context) {
	adminID, _ := middleware.GetUserID(c)

	var req dto.ChangeUserPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	err := h.adminService.ChangeUserPlan(adminID, req.UserID, req.NewPlan)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrInvalidPlan):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "套餐已更新", nil)
}

// ResetUserPassword 重置用户密码
// POST /api/v1/admin/users/reset-password
func (h *AdminHandler) ResetUserPassword(c *gin.Context) {
	adminID, _ := middleware.GetUserID(c)

	var req dto.ResetUserPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	err := h.adminService.ResetUserPassword(adminID, req.UserID, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "密码已重置", nil)
}

// Dashboard 仪表盘统计
// GET /api/v1/admin/dashboard
func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.adminService.DashboardStats(c.Request.Context())
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, stats)
}

// PendingPayments 待审核支付单
// GET /api/v1/admin/payments/pending
func (h *AdminHandler) PendingPayments(c *gin.Context) {
	payments, err := h.paymentService.ListPending()
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, gin.H{"payments": payments})
}

// ApprovePayment 批准支付
// POST /api/v1/admin/payments/approve
func (h *AdminHandler) ApprovePayment(c *gin.Context) {
	adminID, _ := middleware.GetUserID(c)

	var req dto.ApprovePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	payment, err := h.approvalService.Approve(adminID, req.PaymentID, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrPaymentNotApprovable):
			response.DuplicateError(c, err.Error())
		case errors.Is(err, service.ErrPartialApproval):
			response.PartialApprovalError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "支付已批准", payment)
}

// RejectPayment 拒绝支付
// POST /api/v1/admin/payments/reject
func (h *AdminHandler) RejectPayment(c *gin.Context) {
	adminID, _ := middleware.GetUserID(c)

	var req dto.ApprovePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	payment, err := h.approvalService.Reject(adminID, req.PaymentID, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrPaymentNotApprovable):
			response.DuplicateError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "支付已拒绝", payment)
}

// PaymentSettings 收款方式配置列表
// GET /api/v1/admin/payment-settings
func (h *AdminHandler) PaymentSettings(c *gin.Context) {
	settings, err := h.paymentService.GetSettings()
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, gin.H{"settings": settings})
}

// UpdatePaymentSetting 配置收款方式
// PUT /api/v1/admin/payment-settings
func (h *AdminHandler) UpdatePaymentSetting(c *gin.Context) {
	adminID, _ := middleware.GetUserID(c)

	var req dto.UpdatePaymentSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	if err := h.paymentService.UpdateSetting(adminID, &req); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidMethod):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "收款方式已保存", nil)
}

// CreateCoupon 创建优惠券
// POST /api/v1/admin/coupons
func (h *AdminHandler) CreateCoupon(c *gin.Context) {
	adminID, _ := middleware.GetUserID(c)

	var req dto.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	coupon, err := h.couponService.Create(adminID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCouponExists):
			response.DuplicateError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "优惠券已创建", coupon)
}

// UpdateCoupon 更新优惠券
// PUT /api/v1/admin/coupons/:id
func (h *AdminHandler) UpdateCoupon(c *gin.Context) {
	couponID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的优惠券 ID")
		return
	}

	var req dto.UpdateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	coupon, err := h.couponService.Update(couponID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCouponNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "优惠券已更新", coupon)
}

// DeleteCoupon 删除优惠券
// DELETE /api/v1/admin/coupons/:id
func (h *AdminHandler) DeleteCoupon(c *gin.Context) {
	couponID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的优惠券 ID")
		return
	}

	if err := h.couponService.Delete(couponID); err != nil {
		switch {
		case errors.Is(err, service.ErrCouponNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "优惠券已删除", nil)
}

// ListCoupons 优惠券列表
// GET /api/v1/admin/coupons
func (h *AdminHandler) ListCoupons(c *gin.Context) {
	coupons, err := h.couponService.List()
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, gin.H{"coupons": coupons})
}

// Logs 审计日志查询
// GET /api/v1/admin/logs?type=payment&level=info&limit=100
func (h *AdminHandler) Logs(c *gin.Context) {
	limit := 100
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}

	logs, err := h.auditService.List(c.Query("type"), c.Query("level"), limit)
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, gin.H{"logs": logs})
}
