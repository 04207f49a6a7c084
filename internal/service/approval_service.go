package service

import (
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/iaworks/iaworks_server/config"
	"github.com/iaworks/iaworks_server/internal/model"
	"github.com/iaworks/iaworks_server/internal/pkg/email"
	"github.com/iaworks/iaworks_server/internal/pkg/ws"
	"github.com/iaworks/iaworks_server/internal/repository"
)

var (
	ErrPaymentNotApprovable = errors.New("支付记录不在可审核状态")
	// ErrPartialApproval 表示套餐已写入但支付单未标记完成，重新批准可恢复
	ErrPartialApproval = errors.New("审批部分完成，请重试")
)

// ApprovalService 管理员支付审批。
// 批准分两步：先把支付单置为 approving，再写用户套餐，最后标记 completed。
// 任何一步失败都会把支付单留在 approving，重新批准时从中断处继续。
type ApprovalService struct {
	paymentRepo  *repository.PaymentRepository
	userRepo     *repository.UserRepository
	subscription *SubscriptionService
	cfg          *config.Config
	email        *email.Service
	hub          *ws.Hub
	audit        *AuditService
}

func NewApprovalService(
	paymentRepo *repository.PaymentRepository,
	userRepo *repository.UserRepository,
	subscription *SubscriptionService,
	cfg *config.Config,
	emailSvc *email.Service,
	hub *ws.Hub,
	audit *AuditService,
) *ApprovalService {
	return &ApprovalService{
		paymentRepo:  paymentRepo,
		userRepo:     userRepo,
		subscription: subscription,
		cfg:          cfg,
		email:        emailSvc,
		hub:          hub,
		audit:        audit,
	}
}

// Approve 批准支付：开通对应套餐并将支付单标记完成
func (s *ApprovalService) Approve(adminID, paymentID int64, ip, userAgent string) (*model.Payment, error) {
	payment, err := s.paymentRepo.GetByID(paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	// approving 状态允许重入，用于恢复上次中断的审批
	if payment.Status != "pending" && payment.Status != "approving" {
		return nil, ErrPaymentNotApprovable
	}

	if payment.Status == "pending" {
		err := s.paymentRepo.UpdateFields(payment.ID, map[string]interface{}{
			"status": "approving",
		})
		if err != nil {
			return nil, err
		}
		payment.Status = "approving"
	}

	// 写用户套餐
	if err := s.subscription.ActivatePlan(payment.UserID, payment.Plan, payment.Method); err != nil {
		s.audit.Record("payment", "error", "approval interrupted after state transition",
			map[string]interface{}{"payment_id": payment.ID, "error": err.Error()},
			&adminID, ip, userAgent)
		return nil, ErrPartialApproval
	}

	// 标记支付单完成
	now := time.Now()
	err = s.paymentRepo.UpdateFields(payment.ID, map[string]interface{}{
		"status":       "completed",
		"completed_at": now,
	})
	if err != nil {
		s.audit.Record("payment", "error", "approval interrupted before completion",
			map[string]interface{}{"payment_id": payment.ID, "error": err.Error()},
			&adminID, ip, userAgent)
		return nil, ErrPartialApproval
	}
	payment.Status = "completed"
	payment.CompletedAt = &now

	s.audit.Record("payment", "info", "payment approved",
		map[string]interface{}{"payment_id": payment.ID, "plan": payment.Plan, "admin_id": adminID},
		&payment.UserID, ip, userAgent)

	s.notifyUser(payment, "payment_approved")

	// 通知邮件失败不影响审批结果
	if s.email != nil {
		if user, err := s.userRepo.GetByID(payment.UserID); err == nil {
			endDate := time.Now().Add(time.Duration(s.cfg.Plans.DurationDays) * 24 * time.Hour).Format("2006-01-02")
			if err := s.email.SendPaymentApproved(user.Email, payment.Plan, endDate); err != nil {
				log.Printf("Failed to send approval email to %s: %v", user.Email, err)
			}
		}
	}

	return payment, nil
}

// Reject 拒绝支付：支付单进入 failed，用户套餐不变
func (s *ApprovalService) Reject(adminID, paymentID int64, ip, userAgent string) (*model.Payment, error) {
	payment, err := s.paymentRepo.GetByID(paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	if payment.Status != "pending" && payment.Status != "approving" {
		return nil, ErrPaymentNotApprovable
	}

	err = s.paymentRepo.UpdateFields(payment.ID, map[string]interface{}{
		"status": "failed",
	})
	if err != nil {
		return nil, err
	}
	payment.Status = "failed"

	s.audit.Record("payment", "warning", "payment rejected",
		map[string]interface{}{"payment_id": payment.ID, "plan": payment.Plan, "admin_id": adminID},
		&payment.UserID, ip, userAgent)

	s.notifyUser(payment, "payment_rejected")

	return payment, nil
}

func (s *ApprovalService) notifyUser(payment *model.Payment, eventType string) {
	if s.hub == nil {
		return
	}
	_ = s.hub.SendToUser(payment.UserID, &ws.Event{
		Type: eventType,
		Data: map[string]interface{}{
			"payment_id": payment.ID,
			"plan":       payment.Plan,
			"status":     payment.Status,
		},
	})
}
