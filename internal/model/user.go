package model

import (
	"time"
)

type User struct {
	ID           int64   `gorm:"primaryKey" json:"id"`
	UUID         string  `gorm:"size:36;uniqueIndex;not null" json:"uuid"`
	Name         string  `gorm:"size:100;not null" json:"name"`
	Email        string  `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string  `gorm:"size:255;not null" json:"-"`
	Role         string  `gorm:"size:20;default:user" json:"role"` // user, admin
	IsActive     bool    `gorm:"default:true" json:"is_active"`

	Plan          string     `gorm:"size:20;default:none" json:"plan"`          // none, casual, premium, golden
	PlanStatus    string     `gorm:"size:20;default:active" json:"plan_status"` // active, suspended, cancelled, expired
	PlanStartDate *time.Time `json:"plan_start_date,omitempty"`
	PlanEndDate   *time.Time `json:"plan_end_date,omitempty"`
	PaymentMethod string     `gorm:"size:20" json:"payment_method,omitempty"`

	// 用户自有的 SMTP 配置（邮件营销功能使用）
	SMTPHost       string `gorm:"size:255" json:"-"`
	SMTPPort       int    `json:"-"`
	SMTPUser       string `gorm:"size:255" json:"-"`
	SMTPPass       string `gorm:"size:255" json:"-"`
	SMTPConfigured bool   `gorm:"default:false" json:"smtp_configured"`

	// 用户自有的 Instagram 配置（Instagram 私信功能使用）
	InstagramUsername          string `gorm:"size:100" json:"-"`
	InstagramAccessToken       string `gorm:"size:500" json:"-"`
	InstagramBusinessAccountID string `gorm:"size:100" json:"-"`
	InstagramConfigured        bool   `gorm:"default:false" json:"instagram_configured"`

	ResetPasswordToken     *string    `gorm:"size:100" json:"-"`
	ResetPasswordExpiresAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
