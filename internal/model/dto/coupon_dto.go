package dto

import "time"

// CreateCouponRequest 创建优惠券请求
type CreateCouponRequest struct {
	Code               string    `json:"code" binding:"required,min=3,max=50"`
	DiscountPercentage int       `json:"discount_percentage" binding:"required,min=1,max=100"`
	ExpiryDate         time.Time `json:"expiry_date" binding:"required"`
	MaxUses            *int      `json:"max_uses,omitempty" binding:"omitempty,min=1"`
	ApplicablePlans    []string  `json:"applicable_plans,omitempty"`

	AffiliateName       string `json:"affiliate_name,omitempty"`
	AffiliateEmail      string `json:"affiliate_email,omitempty" binding:"omitempty,email"`
	AffiliateCommission int    `json:"affiliate_commission,omitempty" binding:"omitempty,min=0,max=100"`
}

// UpdateCouponRequest 更新优惠券请求
type UpdateCouponRequest struct {
	DiscountPercentage *int       `json:"discount_percentage,omitempty" binding:"omitempty,min=1,max=100"`
	ExpiryDate         *time.Time `json:"expiry_date,omitempty"`
	IsActive           *bool      `json:"is_active,omitempty"`
	MaxUses            *int       `json:"max_uses,omitempty" binding:"omitempty,min=1"`
	ApplicablePlans    []string   `json:"applicable_plans,omitempty"`
}

// ValidateCouponRequest 校验优惠券请求
type ValidateCouponRequest struct {
	Code string `json:"code" binding:"required"`
	Plan string `json:"plan" binding:"required"`
}

// CouponValidation 优惠券校验结果
type CouponValidation struct {
	Valid              bool   `json:"valid"`
	Code               string `json:"code"`
	DiscountPercentage int    `json:"discount_percentage,omitempty"`
	OriginalPrice      int    `json:"original_price,omitempty"`
	FinalPrice         int    `json:"final_price,omitempty"`
}
