package service

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/iaworks/iaworks_server/config"
	"github.com/iaworks/iaworks_server/internal/model"
	"github.com/iaworks/iaworks_server/internal/model/dto"
	"github.com/iaworks/iaworks_server/internal/repository"
)

var (
	ErrCouponExists   = errors.New("优惠码已存在")
	ErrCouponNotFound = errors.New("优惠券不存在")
)

type CouponService struct {
	couponRepo *repository.CouponRepository
	cfg        *config.Config
	audit      *AuditService
}

func NewCouponService(couponRepo *repository.CouponRepository, cfg *config.Config, audit *AuditService) *CouponService {
	return &CouponService{
		couponRepo: couponRepo,
		cfg:        cfg,
		audit:      audit,
	}
}

// Create 创建优惠券
func (s *CouponService) Create(adminID int64, req *dto.CreateCouponRequest) (*model.Coupon, error) {
	coupon := &model.Coupon{
		Code:               strings.ToUpper(req.Code),
		DiscountPercentage: req.DiscountPercentage,
		ExpiryDate:         req.ExpiryDate,
		IsActive:           true,
		MaxUses:            req.MaxUses,
		ApplicablePlans:    req.ApplicablePlans,

		AffiliateName:       req.AffiliateName,
		AffiliateEmail:      req.AffiliateEmail,
		AffiliateCommission: req.AffiliateCommission,

		CreatedBy: &adminID,
	}

	if err := s.couponRepo.Create(coupon); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCouponExists
		}
		return nil, err
	}

	s.audit.Record("system", "info", "coupon created",
		map[string]interface{}{"code": coupon.Code, "discount": coupon.DiscountPercentage},
		&adminID, "", "")

	return coupon, nil
}

// Update 更新优惠券
func (s *CouponService) Update(couponID int64, req *dto.UpdateCouponRequest) (*model.Coupon, error) {
	coupon, err := s.couponRepo.GetByID(couponID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}

	if req.DiscountPercentage != nil {
		coupon.DiscountPercentage = *req.DiscountPercentage
	}
	if req.ExpiryDate != nil {
		coupon.ExpiryDate = *req.ExpiryDate
	}
	if req.IsActive != nil {
		coupon.IsActive = *req.IsActive
	}
	if req.MaxUses != nil {
		coupon.MaxUses = req.MaxUses
	}
	if req.ApplicablePlans != nil {
		coupon.ApplicablePlans = req.ApplicablePlans
	}

	if err := s.couponRepo.Update(coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

// Delete 删除优惠券
func (s *CouponService) Delete(couponID int64) error {
	err := s.couponRepo.Delete(couponID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCouponNotFound
	}
	return err
}

// List 所有优惠券
func (s *CouponService) List() ([]model.Coupon, error) {
	return s.couponRepo.ListAll()
}

// Validate 校验优惠码并计算折后价。
// 优惠码不存在、停用、过期、用完或不适用于该套餐时返回 Valid=false。
func (s *CouponService) Validate(code, plan string) (*dto.CouponValidation, error) {
	level, ok := s.cfg.Plans.Levels[plan]
	if !ok {
		return nil, ErrInvalidPlan
	}

	code = strings.ToUpper(code)
	coupon, err := s.couponRepo.GetByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.CouponValidation{Valid: false, Code: code}, nil
		}
		return nil, err
	}

	if !coupon.IsValid(time.Now()) || !coupon.AppliesTo(plan) {
		return &dto.CouponValidation{Valid: false, Code: code}, nil
	}

	finalPrice := level.Price * (100 - coupon.DiscountPercentage) / 100

	return &dto.CouponValidation{
		Valid:              true,
		Code:               coupon.Code,
		DiscountPercentage: coupon.DiscountPercentage,
		OriginalPrice:      level.Price,
		FinalPrice:         finalPrice,
	}, nil
}

// RecordRedemption 兑换计数。支付批准后调用
func (s *CouponService) RecordRedemption(code string) error {
	coupon, err := s.couponRepo.GetByCode(strings.ToUpper(code))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCouponNotFound
		}
		return err
	}
	return s.couponRepo.IncrementUses(coupon.ID)
}
