package handler

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/iaworks/iaworks_server/internal/api/middleware"
	"github.com/iaworks/iaworks_server/internal/model/dto"
	"github.com/iaworks/iaworks_server/internal/pkg/oss"
	"github.com/iaworks/iaworks_server/internal/pkg/response"
	"github.com/iaworks/iaworks_server/internal/service"
)

// 银行回单最大 10MB
const maxProofSize = 10 << 20

type PaymentHandler struct {
	paymentService *service.PaymentService
	authService    *service.AuthService
	ossClient      *oss.Client
}

func NewPaymentHandler(paymentService *service.PaymentService, authService *service.AuthService, ossClient *oss.Client) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		authService:    authService,
		ossClient:      ossClient,
	}
}

// CreateIntent 创建支付意向
// POST /api/v1/payments/intent
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	user, err := h.authService.GetUserByID(userID)
	if err != nil {
		response.AuthError(c, "")
		return
	}

	data, err := h.paymentService.CreateIntent(user, &req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPlan):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrInvalidMethod):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrMethodNotConfigured):
			response.NotConfiguredError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, data)
}

// ConfirmPaypal 提交 PayPal 凭证
// POST /api/v1/payments/confirm/paypal
func (h *PaymentHandler) ConfirmPaypal(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.ConfirmPaypalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	if err := h.paymentService.ConfirmPaypal(userID, &req); err != nil {
		h.renderConfirmError(c, err)
		return
	}

	response.SuccessWithMessage(c, "凭证已提交，等待管理员审核", nil)
}

// ConfirmCrypto 提交 USDC 凭证
// POST /api/v1/payments/confirm/crypto
func (h *PaymentHandler) ConfirmCrypto(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.ConfirmCryptoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	if err := h.paymentService.ConfirmCrypto(userID, &req); err != nil {
		h.renderConfirmError(c, err)
		return
	}

	response.SuccessWithMessage(c, "凭证已提交，等待管理员审核", nil)
}

// ConfirmBank 提交银行转账凭证
// POST /api/v1/payments/confirm/bank
func (h *PaymentHandler) ConfirmBank(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.ConfirmBankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	if err := h.paymentService.ConfirmBank(userID, &req); err != nil {
		h.renderConfirmError(c, err)
		return
	}

	response.SuccessWithMessage(c, "凭证已提交，等待管理员审核", nil)
}

// UploadBankProof 上传银行回单文件，返回可提交的 URL
// POST /api/v1/payments/:id/proof
func (h *PaymentHandler) UploadBankProof(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	if h.ossClient == nil {
		response.ServerError(c, "文件存储未配置")
		return
	}

	var paymentID int64
	if _, err := fmt.Sscanf(c.Param("id"), "%d", &paymentID); err != nil {
		response.ParamError(c, "无效的支付单 ID")
		return
	}

	// 校验支付单归属
	if _, err := h.paymentService.GetPayment(userID, paymentID); err != nil {
		response.NotFoundError(c, "支付记录不存在")
		return
	}

	fileHeader, err := c.FormFile("proof")
	if err != nil {
		response.ParamError(c, "请上传回单文件")
		return
	}
	if fileHeader.Size > maxProofSize {
		response.ParamError(c, "文件大小不能超过 10MB")
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" && ext != ".pdf" {
		response.ParamError(c, "仅支持 jpg/png/pdf 格式")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.ServerError(c, "")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	url, err := h.ossClient.UploadBankProof(paymentID, data, ext)
	if err != nil {
		response.ServerError(c, "上传失败")
		return
	}

	response.Success(c, gin.H{"url": url})
}

// MyPayments 当前用户的支付历史
// GET /api/v1/payments
func (h *PaymentHandler) MyPayments(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	payments, err := h.paymentService.ListByUser(userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, gin.H{"payments": payments})
}

func (h *PaymentHandler) renderConfirmError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPaymentNotFound):
		response.NotFoundError(c, err.Error())
	case errors.Is(err, service.ErrProofMismatch):
		response.ParamError(c, err.Error())
	case errors.Is(err, service.ErrPaymentFinalized):
		response.DuplicateError(c, err.Error())
	default:
		response.ServerError(c, "")
	}
}
