package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/iaworks/iaworks_server/internal/model"
)

// TestUser 创建测试用户
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	user := &model.User{
		UUID:         uuid.NewString(),
		Name:         fmt.Sprintf("testuser_%d", time.Now().UnixNano()%10000),
		Email:        fmt.Sprintf("test_%d@example.com", time.Now().UnixNano()),
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuvwxyz123456", // bcrypt hash placeholder
		Role:         "user",
		IsActive:     true,
		Plan:         "none",
		PlanStatus:   "active",
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// WithEmail 设置邮箱
func WithEmail(email string) func(*model.User) {
	return func(u *model.User) {
		u.Email = email
	}
}

// WithUUID 设置用户 UUID
func WithUUID(id string) func(*model.User) {
	return func(u *model.User) {
		u.UUID = id
	}
}

// WithRole 设置角色
func WithRole(role string) func(*model.User) {
	return func(u *model.User) {
		u.Role = role
	}
}

// WithPlan 设置套餐及有效期
func WithPlan(plan string, start, end time.Time) func(*model.User) {
	return func(u *model.User) {
		u.Plan = plan
		u.PlanStartDate = &start
		u.PlanEndDate = &end
	}
}

// WithPlanStatus 设置套餐状态
func WithPlanStatus(status string) func(*model.User) {
	return func(u *model.User) {
		u.PlanStatus = status
	}
}

// WithInactive 设置账户为停用
func WithInactive() func(*model.User) {
	return func(u *model.User) {
		u.IsActive = false
	}
}

// TestPayment 创建测试支付单
func TestPayment(t *testing.T, db *gorm.DB, userID int64, opts ...func(*model.Payment)) *model.Payment {
	t.Helper()

	payment := &model.Payment{
		UserID: userID,
		Plan:   "casual",
		Amount: 20,
		Method: "paypal",
		Status: "pending",
	}

	for _, opt := range opts {
		opt(payment)
	}

	if err := db.Create(payment).Error; err != nil {
		t.Fatalf("Failed to create test payment: %v", err)
	}

	return payment
}

// WithPaymentPlan 设置支付单对应的套餐和金额
func WithPaymentPlan(plan string, amount int) func(*model.Payment) {
	return func(p *model.Payment) {
		p.Plan = plan
		p.Amount = amount
	}
}

// WithMethod 设置支付方式
func WithMethod(method string) func(*model.Payment) {
	return func(p *model.Payment) {
		p.Method = method
	}
}

// WithPaymentStatus 设置支付单状态
func WithPaymentStatus(status string) func(*model.Payment) {
	return func(p *model.Payment) {
		p.Status = status
	}
}

// WithBankReference 设置银行转账参考号
func WithBankReference(ref string) func(*model.Payment) {
	return func(p *model.Payment) {
		p.BankReference = ref
	}
}

// TestCoupon 创建测试优惠券
func TestCoupon(t *testing.T, db *gorm.DB, opts ...func(*model.Coupon)) *model.Coupon {
	t.Helper()

	coupon := &model.Coupon{
		Code:               fmt.Sprintf("TEST%d", time.Now().UnixNano()%1000000),
		DiscountPercentage: 20,
		ExpiryDate:         time.Now().Add(30 * 24 * time.Hour),
		IsActive:           true,
	}

	for _, opt := range opts {
		opt(coupon)
	}

	if err := db.Create(coupon).Error; err != nil {
		t.Fatalf("Failed to create test coupon: %v", err)
	}

	return coupon
}

// WithCode 设置优惠码
func WithCode(code string) func(*model.Coupon) {
	return func(c *model.Coupon) {
		c.Code = code
	}
}

// WithDiscount 设置折扣比例
func WithDiscount(percentage int) func(*model.Coupon) {
	return func(c *model.Coupon) {
		c.DiscountPercentage = percentage
	}
}

// WithExpiry 设置过期时间
func WithExpiry(expiry time.Time) func(*model.Coupon) {
	return func(c *model.Coupon) {
		c.ExpiryDate = expiry
	}
}

// WithMaxUses 设置使用上限和已用次数
func WithMaxUses(max, used int) func(*model.Coupon) {
	return func(c *model.Coupon) {
		c.MaxUses = &max
		c.CurrentUses = used
	}
}

// WithCouponInactive 设置优惠券为停用
func WithCouponInactive() func(*model.Coupon) {
	return func(c *model.Coupon) {
		c.IsActive = false
	}
}

// WithApplicablePlans 限定适用套餐
func WithApplicablePlans(plans ...string) func(*model.Coupon) {
	return func(c *model.Coupon) {
		c.ApplicablePlans = plans
	}
}

// TestPaymentSetting 创建支付方式配置
func TestPaymentSetting(t *testing.T, db *gorm.DB, method string, opts ...func(*model.PaymentSetting)) *model.PaymentSetting {
	t.Helper()

	setting := &model.PaymentSetting{
		Method:     method,
		Configured: true,
	}
	switch method {
	case "paypal":
		setting.PaypalEmail = "merchant@iaworks.com"
	case "usdc":
		setting.USDCWallet = "0x1234567890abcdef1234567890abcdef12345678"
	case "bank_transfer":
		setting.BankName = "Test Bank"
		setting.BankIBAN = "ES9121000418450200051332"
		setting.BankAccountHolder = "IAWorks SL"
	}

	for _, opt := range opts {
		opt(setting)
	}

	if err := db.Create(setting).Error; err != nil {
		t.Fatalf("Failed to create test payment setting: %v", err)
	}

	return setting
}

// WithUnconfigured 标记支付方式未配置
func WithUnconfigured() func(*model.PaymentSetting) {
	return func(s *model.PaymentSetting) {
		s.Configured = false
	}
}
