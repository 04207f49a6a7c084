package model

import (
	"time"
)

type Coupon struct {
	ID                 int64    `gorm:"primaryKey" json:"id"`
	Code               string   `gorm:"size:50;uniqueIndex;not null" json:"code"`
	DiscountPercentage int      `gorm:"not null" json:"discount_percentage"` // 1-100
	ExpiryDate         time.Time `gorm:"not null" json:"expiry_date"`
	IsActive           bool     `gorm:"default:true" json:"is_active"`
	MaxUses            *int     `json:"max_uses,omitempty"` // nil = 不限次数
	CurrentUses        int      `gorm:"default:0" json:"current_uses"`
	ApplicablePlans    []string `gorm:"serializer:json" json:"applicable_plans"`

	// 可选的推广归属
	AffiliateName       string `gorm:"size:100" json:"affiliate_name,omitempty"`
	AffiliateEmail      string `gorm:"size:100" json:"affiliate_email,omitempty"`
	AffiliateCommission int    `json:"affiliate_commission,omitempty"`

	CreatedBy *int64    `gorm:"index" json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Coupon) TableName() string {
	return "coupons"
}

// IsValid 判断优惠券当前是否可用
func (c *Coupon) IsValid(now time.Time) bool {
	if !c.IsActive {
		return false
	}
	// 到期时刻本身视为已过期
	if !now.Before(c.ExpiryDate) {
		return false
	}
	if c.MaxUses != nil && c.CurrentUses >= *c.MaxUses {
		return false
	}
	return true
}

// AppliesTo 判断优惠券是否适用于指定套餐。适用范围为空表示全部套餐可用
func (c *Coupon) AppliesTo(plan string) bool {
	if len(c.ApplicablePlans) == 0 {
		return true
	}
	for _, p := range c.ApplicablePlans {
		if p == plan {
			return true
		}
	}
	return false
}
