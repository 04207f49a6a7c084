package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 错误码定义
const (
	CodeSuccess          = 0
	CodeParamError       = 1000
	CodeAuthFailed       = 1001
	CodePermissionDenied = 1002
	CodeResourceNotFound = 1003
	CodeDuplicateAction  = 1005
	CodePlanRequired     = 2000
	CodePlanExpired      = 2001
	CodeFeatureDenied    = 2002
	CodeNotConfigured    = 2003
	CodePartialApproval  = 2004
	CodeServerError      = 5000
)

// 错误码对应的默认消息
var codeMessages = map[int]string{
	CodeSuccess:          "success",
	CodeParamError:       "参数错误",
	CodeAuthFailed:       "认证失败",
	CodePermissionDenied: "权限不足",
	CodeResourceNotFound: "资源不存在",
	CodeDuplicateAction:  "重复操作",
	CodePlanRequired:     "需要订阅套餐",
	CodePlanExpired:      "订阅已过期",
	CodeFeatureDenied:    "当前套餐不包含该功能",
	CodeNotConfigured:    "支付方式未配置",
	CodePartialApproval:  "支付批准未完全生效",
	CodeServerError:      "服务器内部错误",
}

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

// SuccessWithMessage 带自定义消息的成功响应
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: message,
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, code int, message string) {
	if message == "" {
		message = codeMessages[code]
	}
	c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: message,
		Data:    nil,
	})
}

// ParamError 参数错误
func ParamError(c *gin.Context, message string) {
	Error(c, CodeParamError, message)
}

// AuthError 认证失败
func AuthError(c *gin.Context, message string) {
	Error(c, CodeAuthFailed, message)
}

// PermissionError 权限不足
func PermissionError(c *gin.Context, message string) {
	Error(c, CodePermissionDenied, message)
}

// NotFoundError 资源不存在
func NotFoundError(c *gin.Context, message string) {
	Error(c, CodeResourceNotFound, message)
}

// DuplicateError 重复操作
func DuplicateError(c *gin.Context, message string) {
	Error(c, CodeDuplicateAction, message)
}

// PlanRequiredError 未订阅任何套餐
func PlanRequiredError(c *gin.Context, message string) {
	Error(c, CodePlanRequired, message)
}

// PlanExpiredError 订阅不可用（过期/挂起/已取消）
func PlanExpiredError(c *gin.Context, message string) {
	Error(c, CodePlanExpired, message)
}

// FeatureDeniedError 套餐不包含该功能
func FeatureDeniedError(c *gin.Context, message string) {
	Error(c, CodeFeatureDenied, message)
}

// NotConfiguredError 管理员未配置该支付方式
func NotConfiguredError(c *gin.Context, message string) {
	Error(c, CodeNotConfigured, message)
}

// PartialApprovalError 支付已标记但套餐未生效，需要人工处理
func PartialApprovalError(c *gin.Context, message string) {
	Error(c, CodePartialApproval, message)
}

// ServerError 服务器错误
func ServerError(c *gin.Context, message string) {
	Error(c, CodeServerError, message)
}
