package service

import (
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/iaworks/iaworks_server/config"
	"github.com/iaworks/iaworks_server/internal/model/dto"
	"github.com/iaworks/iaworks_server/internal/repository"
)

var (
	ErrInvalidPlan  = errors.New("无效的套餐")
	ErrNoActivePlan = errors.New("当前没有生效的订阅")
	ErrSamePlan     = errors.New("已经是当前套餐")
)

type SubscriptionService struct {
	userRepo *repository.UserRepository
	cfg      *config.Config
	audit    *AuditService
}

func NewSubscriptionService(userRepo *repository.UserRepository, cfg *config.Config, audit *AuditService) *SubscriptionService {
	return &SubscriptionService{
		userRepo: userRepo,
		cfg:      cfg,
		audit:    audit,
	}
}

// GetCurrentPlan 获取用户当前订阅信息
func (s *SubscriptionService) GetCurrentPlan(userID int64) (*dto.PlanInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	info := &dto.PlanInfo{
		Plan:          user.Plan,
		PlanStatus:    user.PlanStatus,
		PaymentMethod: user.PaymentMethod,
	}

	if user.PlanStartDate != nil {
		info.PlanStartDate = user.PlanStartDate.Format("2006-01-02")
	}
	if user.PlanEndDate != nil {
		info.PlanEndDate = user.PlanEndDate.Format("2006-01-02")

		days := int(time.Until(*user.PlanEndDate).Hours() / 24)
		if days < 0 {
			days = 0
		}
		info.DaysRemaining = &days
	}

	return info, nil
}

// ActivatePlan 设置套餐并开启一个新的订阅周期。
// plan 为 none 时只清空套餐，不改动状态和周期；否则状态置为 active、
// 结束日期从当前时间起算，首次开通才写入开始日期。
func (s *SubscriptionService) ActivatePlan(userID int64, plan, paymentMethod string) error {
	if plan != "none" {
		if _, ok := s.cfg.Plans.Levels[plan]; !ok {
			return ErrInvalidPlan
		}
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	fields := map[string]interface{}{
		"plan": plan,
	}
	if plan != "none" {
		now := time.Now()
		fields["plan_status"] = "active"
		fields["plan_end_date"] = now.Add(time.Duration(s.cfg.Plans.DurationDays) * 24 * time.Hour)
		if user.PlanStartDate == nil {
			fields["plan_start_date"] = now
		}
		if paymentMethod != "" {
			fields["payment_method"] = paymentMethod
		}
	}

	return s.userRepo.UpdateFields(userID, fields)
}

// RenewPlan 续期订阅：结束日期从当前时间重新起算，状态强制恢复 active。
// 对 cancelled 的订阅续期即重新激活。
func (s *SubscriptionService) RenewPlan(userID int64) (*time.Time, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if user.Plan == "none" {
		return nil, ErrNoActivePlan
	}

	end := time.Now().Add(time.Duration(s.cfg.Plans.DurationDays) * 24 * time.Hour)
	err = s.userRepo.UpdateFields(userID, map[string]interface{}{
		"plan_status":   "active",
		"plan_end_date": end,
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record("system", "info", "plan renewed",
		map[string]interface{}{"plan": user.Plan, "new_end_date": end.Format("2006-01-02")}, &userID, "", "")
	return &end, nil
}

// ChangePlan 切换套餐：保留现有订阅周期，只替换套餐级别
func (s *SubscriptionService) ChangePlan(userID int64, newPlan string) error {
	if _, ok := s.cfg.Plans.Levels[newPlan]; !ok {
		return ErrInvalidPlan
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if user.Plan == "none" || user.PlanStatus != "active" {
		return ErrNoActivePlan
	}
	if user.PlanEndDate == nil || time.Now().After(*user.PlanEndDate) {
		return ErrNoActivePlan
	}
	if s.cfg.Policy.RejectSamePlan && user.Plan == newPlan {
		return ErrSamePlan
	}

	err = s.userRepo.UpdateFields(userID, map[string]interface{}{
		"plan": newPlan,
	})
	if err != nil {
		return err
	}

	s.audit.Record("system", "info", "plan changed",
		map[string]interface{}{"from": user.Plan, "to": newPlan}, &userID, "", "")
	return nil
}

// CancelPlan 取消订阅：已付周期内仍可使用，周期结束后不再续期
func (s *SubscriptionService) CancelPlan(userID int64) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if user.Plan == "none" || user.PlanStatus == "cancelled" {
		return ErrNoActivePlan
	}

	err = s.userRepo.UpdateFields(userID, map[string]interface{}{
		"plan_status": "cancelled",
	})
	if err != nil {
		return err
	}

	s.audit.Record("system", "info", "plan cancelled",
		map[string]interface{}{"plan": user.Plan}, &userID, "", "")
	return nil
}

// ExpireOverdue 过期巡检：将所有已过订阅周期但状态仍为 active 的用户标记为 expired。
// 返回本次处理的用户数。
func (s *SubscriptionService) ExpireOverdue(now time.Time) (int, error) {
	users, err := s.userRepo.ListActiveExpiredBefore(now)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, user := range users {
		err := s.userRepo.UpdateFields(user.ID, map[string]interface{}{
			"plan_status": "expired",
		})
		if err != nil {
			log.Printf("Failed to expire plan for user %d: %v", user.ID, err)
			continue
		}

		userID := user.ID
		s.audit.Record("system", "info", "plan expired",
			map[string]interface{}{"plan": user.Plan, "email": user.Email}, &userID, "", "")
		expired++
	}

	return expired, nil
}
