package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/iaworks/iaworks_server/internal/api/middleware"
	"github.com/iaworks/iaworks_server/internal/model/dto"
	"github.com/iaworks/iaworks_server/internal/pkg/response"
	"github.com/iaworks/iaworks_server/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register 用户注册
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.authService.Register(&req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailExists):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "注册成功", resp)
}

// Login 用户登录
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.authService.Login(&req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.AuthError(c, err.Error())
		case errors.Is(err, service.ErrAccountDisabled):
			response.PermissionError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "登录成功", resp)
}

// Me 当前用户信息
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	info, err := h.authService.GetMe(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.AuthError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, info)
}

// UpdateProfile 更新个人资料
// PUT /api/v1/auth/profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	info, err := h.authService.UpdateProfile(userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailExists):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			response.AuthError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "资料已更新", info)
}

// UpdatePassword 修改密码
// PUT /api/v1/auth/password
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	if err := h.authService.UpdatePassword(userID, &req); err != nil {
		switch {
		case errors.Is(err, service.ErrWrongPassword):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "密码已修改", nil)
}

// ForgotPassword 找回密码
// POST /api/v1/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	if err := h.authService.ForgotPassword(req.Email, c.ClientIP(), c.Request.UserAgent()); err != nil {
		response.ServerError(c, "")
		return
	}

	// 无论邮箱是否存在都返回同样的提示
	response.SuccessWithMessage(c, "如果该邮箱已注册，重置邮件将在几分钟内送达", nil)
}

// ResetPassword 重置密码
// POST /api/v1/auth/reset-password/:token
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	if err := h.authService.ResetPassword(c.Param("token"), req.Password); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidResetToken):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "密码已重置，请重新登录", nil)
}

// AdminExists 查询系统是否已有管理员（前端用来决定是否展示引导页）
// GET /api/v1/auth/admin-exists
func (h *AuthHandler) AdminExists(c *gin.Context) {
	exists, err := h.authService.AdminExists()
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, gin.H{"exists": exists})
}

// CreateFirstAdmin 创建首个管理员
// POST /api/v1/auth/first-admin
func (h *AuthHandler) CreateFirstAdmin(c *gin.Context) {
	var req dto.CreateFirstAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.authService.CreateFirstAdmin(&req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAdminAlreadyExists):
			response.PermissionError(c, err.Error())
		case errors.Is(err, service.ErrInvalidAdminKey):
			response.PermissionError(c, err.Error())
		case errors.Is(err, service.ErrEmailExists):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "管理员创建成功", resp)
}

// UpdateSMTP 保存 SMTP 配置
// PUT /api/v1/auth/smtp
func (h *AuthHandler) UpdateSMTP(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.UpdateSMTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	if err := h.authService.UpdateSMTP(userID, &req); err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "SMTP 配置已保存", nil)
}

// UpdateInstagram 保存 Instagram 配置
// PUT /api/v1/auth/instagram
func (h *AuthHandler) UpdateInstagram(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.UpdateInstagramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	if err := h.authService.UpdateInstagram(userID, &req); err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "Instagram 配置已保存", nil)
}
