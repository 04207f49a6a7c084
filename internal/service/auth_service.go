package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/iaworks/iaworks_server/config"
	"github.com/iaworks/iaworks_server/internal/model"
	"github.com/iaworks/iaworks_server/internal/model/dto"
	"github.com/iaworks/iaworks_server/internal/pkg/email"
	"github.com/iaworks/iaworks_server/internal/pkg/jwt"
	"github.com/iaworks/iaworks_server/internal/repository"
)

var (
	ErrEmailExists        = errors.New("邮箱已被注册")
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrUserNotFound       = errors.New("用户不存在")
	ErrAccountDisabled    = errors.New("账户已被停用")
	ErrWrongPassword      = errors.New("当前密码错误")
	ErrInvalidResetToken  = errors.New("重置链接无效或已过期")
	ErrAdminAlreadyExists = errors.New("管理员已存在")
	ErrInvalidAdminKey    = errors.New("管理员密钥错误")
)

type AuthService struct {
	userRepo *repository.UserRepository
	cfg      *config.Config
	email    *email.Service
	audit    *AuditService
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config, emailSvc *email.Service, audit *AuditService) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		cfg:      cfg,
		email:    emailSvc,
		audit:    audit,
	}
}

// Register 用户注册
func (s *AuthService) Register(req *dto.RegisterRequest, ip, userAgent string) (*dto.AuthResponse, error) {
	// 检查邮箱是否存在
	exists, err := s.userRepo.ExistsByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	// 加密密码
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		UUID:         uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		Role:         "user",
		IsActive:     true,
		Plan:         "none",
		PlanStatus:   "active",
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	s.audit.Record("system", "info", "user registered",
		map[string]interface{}{"email": user.Email}, &user.ID, ip, userAgent)

	// 欢迎邮件失败不阻断注册
	if s.email != nil {
		if err := s.email.SendWelcome(user.Email, user.Name); err != nil {
			log.Printf("Failed to send welcome email to %s: %v", user.Email, err)
		}
	}

	token, err := jwt.GenerateToken(user.ID, s.cfg.JWT.Secret, s.cfg.JWT.ExpireHours)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Token: token,
		User:  s.buildUserInfo(user),
	}, nil
}

// Login 用户登录
func (s *AuthService) Login(req *dto.LoginRequest, ip, userAgent string) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// 验证密码
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.audit.Record("system", "warning", "failed login attempt",
			map[string]interface{}{"email": req.Email}, nil, ip, userAgent)
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	token, err := jwt.GenerateToken(user.ID, s.cfg.JWT.Secret, s.cfg.JWT.ExpireHours)
	if err != nil {
		return nil, err
	}

	s.audit.Record("system", "info", "user logged in", nil, &user.ID, ip, userAgent)

	return &dto.AuthResponse{
		Token: token,
		User:  s.buildUserInfo(user),
	}, nil
}

// GetMe 获取当前用户信息
func (s *AuthService) GetMe(userID int64) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.buildUserInfo(user), nil
}

// GetUserByID 根据 ID 获取用户
func (s *AuthService) GetUserByID(id int64) (*model.User, error) {
	return s.userRepo.GetByID(id)
}

// UpdateProfile 更新个人资料
func (s *AuthService) UpdateProfile(userID int64, req *dto.UpdateProfileRequest) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil && *req.Email != user.Email {
		exists, err := s.userRepo.ExistsByEmail(*req.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrEmailExists
		}
		user.Email = *req.Email
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return s.buildUserInfo(user), nil
}

// UpdatePassword 修改密码，需验证当前密码
func (s *AuthService) UpdatePassword(userID int64, req *dto.UpdatePasswordRequest) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return ErrWrongPassword
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.userRepo.UpdateFields(userID, map[string]interface{}{
		"password_hash": string(hashedPassword),
	})
}

// ForgotPassword 发送密码重置邮件。为避免邮箱枚举，邮箱不存在时也返回成功
func (s *AuthService) ForgotPassword(reqEmail, ip, userAgent string) error {
	user, err := s.userRepo.GetByEmail(reqEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	rawToken, err := generateRandomToken(32)
	if err != nil {
		return err
	}

	// 数据库只存哈希，邮件里发原始 token
	hash := sha256.Sum256([]byte(rawToken))
	tokenHash := hex.EncodeToString(hash[:])
	expiresAt := time.Now().Add(10 * time.Minute)

	err = s.userRepo.UpdateFields(user.ID, map[string]interface{}{
		"reset_password_token":      tokenHash,
		"reset_password_expires_at": expiresAt,
	})
	if err != nil {
		return err
	}

	s.audit.Record("system", "info", "password reset requested", nil, &user.ID, ip, userAgent)

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.cfg.Server.FrontendURL, rawToken)
	if s.email != nil {
		return s.email.SendPasswordReset(user.Email, resetURL)
	}
	return nil
}

// ResetPassword 用重置 token 设置新密码
func (s *AuthService) ResetPassword(rawToken, newPassword string) error {
	hash := sha256.Sum256([]byte(rawToken))
	tokenHash := hex.EncodeToString(hash[:])

	user, err := s.userRepo.GetByResetToken(tokenHash, time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.userRepo.UpdateFields(user.ID, map[string]interface{}{
		"password_hash":             string(hashedPassword),
		"reset_password_token":      nil,
		"reset_password_expires_at": nil,
	})
}

// AdminExists 检查系统是否已有管理员
func (s *AuthService) AdminExists() (bool, error) {
	return s.userRepo.AdminExists()
}

// CreateFirstAdmin 引导创建首个管理员：仅当系统无管理员且密钥匹配时放行
func (s *AuthService) CreateFirstAdmin(req *dto.CreateFirstAdminRequest, ip, userAgent string) (*dto.AuthResponse, error) {
	exists, err := s.userRepo.AdminExists()
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAdminAlreadyExists
	}

	if s.cfg.Admin.BootstrapKey == "" || req.AdminKey != s.cfg.Admin.BootstrapKey {
		s.audit.Record("system", "warning", "first admin creation rejected",
			map[string]interface{}{"email": req.Email}, nil, ip, userAgent)
		return nil, ErrInvalidAdminKey
	}

	emailExists, err := s.userRepo.ExistsByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if emailExists {
		return nil, ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	admin := &model.User{
		UUID:         uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		Role:         "admin",
		IsActive:     true,
		Plan:         "none",
		PlanStatus:   "active",
	}

	if err := s.userRepo.Create(admin); err != nil {
		return nil, err
	}

	s.audit.Record("system", "info", "first admin created",
		map[string]interface{}{"email": admin.Email}, &admin.ID, ip, userAgent)

	token, err := jwt.GenerateToken(admin.ID, s.cfg.JWT.Secret, s.cfg.JWT.ExpireHours)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Token: token,
		User:  s.buildUserInfo(admin),
	}, nil
}

// UpdateSMTP 保存用户的 SMTP 配置
func (s *AuthService) UpdateSMTP(userID int64, req *dto.UpdateSMTPRequest) error {
	return s.userRepo.UpdateFields(userID, map[string]interface{}{
		"smtp_host":       req.Host,
		"smtp_port":       req.Port,
		"smtp_user":       req.User,
		"smtp_pass":       req.Pass,
		"smtp_configured": true,
	})
}

// UpdateInstagram 保存用户的 Instagram 账号配置
func (s *AuthService) UpdateInstagram(userID int64, req *dto.UpdateInstagramRequest) error {
	return s.userRepo.UpdateFields(userID, map[string]interface{}{
		"instagram_username":            req.Username,
		"instagram_access_token":        req.AccessToken,
		"instagram_business_account_id": req.BusinessAccountID,
		"instagram_configured":          true,
	})
}

func (s *AuthService) buildUserInfo(user *model.User) *dto.UserInfo {
	info := &dto.UserInfo{
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

	return info
}

func generateRandomToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
