package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/iaworks/iaworks_server/config"
	"github.com/iaworks/iaworks_server/internal/model/dto"
	"github.com/iaworks/iaworks_server/internal/repository"
)

var ErrCannotModifyAdmin = errors.New("不能对管理员账户执行该操作")

const (
	dashboardCacheKey = "iaworks:stats:dashboard"
	dashboardCacheTTL = 60 * time.Second
)

type AdminService struct {
	userRepo     *repository.UserRepository
	paymentRepo  *repository.PaymentRepository
	subscription *SubscriptionService
	cfg          *config.Config
	redis        *redis.Client
	audit        *AuditService
}

func NewAdminService(
	userRepo *repository.UserRepository,
	paymentRepo *repository.PaymentRepository,
	subscription *SubscriptionService,
	cfg *config.Config,
	redisClient *redis.Client,
	audit *AuditService,
) *AdminService {
	return &AdminService{
		userRepo:     userRepo,
		paymentRepo:  paymentRepo,
		subscription: subscription,
		cfg:          cfg,
		redis:        redisClient,
		audit:        audit,
	}
}

// ListUsers 所有用户列表
func (s *AdminService) ListUsers() ([]dto.UserInfo, error) {
	users, err := s.userRepo.ListAll()
	if err != nil {
		return nil, err
	}

	infos := make([]dto.UserInfo, 0, len(users))
	for _, user := range users {
		info := dto.UserInfo{
			ID:                  user.ID,
			UUID:                user.UUID,
			Name:                user.Name,
			Email:               user.Email,
			Role:                user.Role,
			Plan:                user.Plan,
			PlanStatus:          user.PlanStatus,
			SMTPConfigured:      user.SMTPConfigured,
			InstagramConfigured: user.InstagramConfigured,
			CreatedAt:           user.CreatedAt.Format("2006-01-02"),
		}
		if user.PlanStartDate != nil {
			info.PlanStartDate = user.PlanStartDate.Format("2006-01-02")
		}
		if user.PlanEndDate != nil {
			info.PlanEndDate = user.PlanEndDate.Format("2006-01-02")
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// ToggleUserStatus 挂起/恢复用户订阅。管理员账户不允许被挂起
func (s *AdminService) ToggleUserStatus(adminID, userID int64) (string, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	if user.Role == "admin" {
		return "", ErrCannotModifyAdmin
	}

	newStatus := "suspended"
	if user.PlanStatus == "suspended" {
		newStatus = "active"
	}

	err = s.userRepo.UpdateFields(userID, map[string]interface{}{
		"plan_status": newStatus,
	})
	if err != nil {
		return "", err
	}

	s.audit.Record("system", "warning", "user plan status toggled",
		map[string]interface{}{"target_user_id": userID, "new_status": newStatus, "admin_id": adminID},
		&userID, "", "")

	return newStatus, nil
}

// ChangeUserPlan 管理员直接设置用户套餐。newPlan 为 none 时清空套餐，
// 否则开启新的订阅周期；不记录支付方式
func (s *AdminService) ChangeUserPlan(adminID, userID int64, newPlan string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.subscription.ActivatePlan(user.ID, newPlan, ""); err != nil {
		return err
	}

	s.audit.Record("system", "info", "user plan changed by admin",
		map[string]interface{}{"target_user_id": userID, "from": user.Plan, "to": newPlan, "admin_id": adminID},
		&userID, "", "")
	return nil
}

// ResetUserPassword 管理员重置用户密码
func (s *AdminService) ResetUserPassword(adminID, userID int64, newPassword string) error {
	if _, err := s.userRepo.GetByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	err = s.userRepo.UpdateFields(userID, map[string]interface{}{
		"password_hash": string(hashedPassword),
	})
	if err != nil {
		return err
	}

	s.audit.Record("system", "warning", "user password reset by admin",
		map[string]interface{}{"target_user_id": userID, "admin_id": adminID},
		&userID, "", "")
	return nil
}

// DashboardStats 仪表盘统计，Redis 缓存 60 秒
func (s *AdminService) DashboardStats(ctx context.Context) (*dto.DashboardStats, error) {
	if s.redis != nil {
		cached, err := s.redis.Get(ctx, dashboardCacheKey).Result()
		if err == nil {
			var stats dto.DashboardStats
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return &stats, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			log.Printf("Failed to read dashboard cache: %v", err)
		}
	}

	stats, err := s.buildDashboardStats()
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		data, err := json.Marshal(stats)
		if err == nil {
			if err := s.redis.Set(ctx, dashboardCacheKey, data, dashboardCacheTTL).Err(); err != nil {
				log.Printf("Failed to write dashboard cache: %v", err)
			}
		}
	}

	return stats, nil
}

func (s *AdminService) buildDashboardStats() (*dto.DashboardStats, error) {
	totalUsers, err := s.userRepo.CountByRole("user")
	if err != nil {
		return nil, err
	}

	activeSubscriptions, err := s.userRepo.CountActiveSubscriptions()
	if err != nil {
		return nil, err
	}

	totalRevenue, err := s.paymentRepo.SumCompletedAmount()
	if err != nil {
		return nil, err
	}

	pendingPayments, err := s.paymentRepo.CountByStatus("pending")
	if err != nil {
		return nil, err
	}

	usersByPlan, err := s.userRepo.CountGroupByPlan()
	if err != nil {
		return nil, err
	}

	recent, err := s.paymentRepo.ListRecent(10)
	if err != nil {
		return nil, err
	}

	recentSummaries := make([]dto.PaymentSummary, 0, len(recent))
	for _, p := range recent {
		summary := dto.PaymentSummary{
			ID:            p.ID,
			UserID:        p.UserID,
			Plan:          p.Plan,
			Amount:        p.Amount,
			PaymentMethod: p.Method,
			Status:        p.Status,
			CreatedAt:     p.CreatedAt.Format(time.RFC3339),
		}
		if user, err := s.userRepo.GetByID(p.UserID); err == nil {
			summary.UserName = user.Name
			summary.UserEmail = user.Email
		}
		recentSummaries = append(recentSummaries, summary)
	}

	return &dto.DashboardStats{
		TotalUsers:          totalUsers,
		ActiveSubscriptions: activeSubscriptions,
		TotalRevenue:        totalRevenue,
		PendingPayments:     pendingPayments,
		UsersByPlan:         usersByPlan,
		RecentPayments:      recentSummaries,
	}, nil
}
