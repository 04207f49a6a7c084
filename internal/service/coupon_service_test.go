package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/iaworks/iaworks_server/internal/model"
	"github.com/iaworks/iaworks_server/internal/model/dto"
	"github.com/iaworks/iaworks_server/internal/repository"
	"github.com/iaworks/iaworks_server/internal/testutil"
)

func setupCouponService(t *testing.T) (*CouponService, *gorm.DB) {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	svc := NewCouponService(repository.NewCouponRepository(db), newTestConfig(), newTestAudit(db))
	return svc, db
}

func TestCouponService_Create(t *testing.T) {
	svc, _ := setupCouponService(t)

	coupon, err := svc.Create(1, &dto.CreateCouponRequest{
		Code:               "LAUNCH30",
		DiscountPercentage: 30,
		ExpiryDate:         time.Now().Add(30 * 24 * time.Hour),
	})
	require.NoError(t, err)
	assert.NotZero(t, coupon.ID)
	assert.True(t, coupon.IsActive)
}

func TestCouponService_Create_DuplicateCode(t *testing.T) {
	svc, _ := setupCouponService(t)

	req := &dto.CreateCouponRequest{
		Code:               "ONCE",
		DiscountPercentage: 10,
		ExpiryDate:         time.Now().Add(24 * time.Hour),
	}
	_, err := svc.Create(1, req)
	require.NoError(t, err)

	_, err = svc.Create(1, req)
	assert.ErrorIs(t, err, ErrCouponExists)
}

func TestCouponService_Validate(t *testing.T) {
	svc, db := setupCouponService(t)

	testutil.TestCoupon(t, db, testutil.WithCode("HALF"), testutil.WithDiscount(50))

	result, err := svc.Validate("HALF", "golden")
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, 50, result.DiscountPercentage)
	assert.Equal(t, 60, result.OriginalPrice)
	assert.Equal(t, 30, result.FinalPrice)
}

func TestCouponService_Validate_UnknownCode(t *testing.T) {
	svc, _ := setupCouponService(t)

	result, err := svc.Validate("NOPE", "casual")
	require.NoError(t, err)
	assert.False(t, result.Valid)
}

func TestCouponService_Validate_InvalidPlan(t *testing.T) {
	svc, db := setupCouponService(t)

	testutil.TestCoupon(t, db, testutil.WithCode("ANY"))

	_, err := svc.Validate("ANY", "platinum")
	assert.ErrorIs(t, err, ErrInvalidPlan)
}

func TestCouponService_Validate_ExpiryBoundary(t *testing.T) {
	now := time.Now()
	coupon := &model.Coupon{IsActive: true, ExpiryDate: now}

	// 到期时刻本身已不可用
	assert.False(t, coupon.IsValid(now))
	assert.True(t, coupon.IsValid(now.Add(-time.Second)))
}

// 有效性由三个条件共同决定：启用、未过期、未用完。任何一项不满足都无效。
func TestCouponService_Validate_Combinations(t *testing.T) {
	svc, db := setupCouponService(t)

	future := time.Now().Add(24 * time.Hour)
	past := time.Now().Add(-24 * time.Hour)

	cases := []struct {
		active    bool
		expiry    time.Time
		used, max int
		want      bool
	}{
		{true, future, 0, 10, true},
		{true, future, 10, 10, false},
		{true, past, 0, 10, false},
		{true, past, 10, 10, false},
		{false, future, 0, 10, false},
		{false, future, 10, 10, false},
		{false, past, 0, 10, false},
		{false, past, 10, 10, false},
	}

	for i, tc := range cases {
		code := fmt.Sprintf("COMBO%d", i)

		opts := []func(*model.Coupon){
			testutil.WithCode(code),
			testutil.WithExpiry(tc.expiry),
			testutil.WithMaxUses(tc.max, tc.used),
		}
		if !tc.active {
			opts = append(opts, testutil.WithCouponInactive())
		}
		testutil.TestCoupon(t, db, opts...)

		result, err := svc.Validate(code, "casual")
		require.NoError(t, err)
		assert.Equal(t, tc.want, result.Valid, "case %d: active=%v expiry=%v used=%d/%d", i, tc.active, tc.expiry, tc.used, tc.max)
	}
}

func TestCouponService_Validate_ApplicablePlans(t *testing.T) {
	svc, db := setupCouponService(t)

	testutil.TestCoupon(t, db,
		testutil.WithCode("PREMIUMUP"),
		testutil.WithApplicablePlans("premium", "golden"))

	result, err := svc.Validate("PREMIUMUP", "casual")
	require.NoError(t, err)
	assert.False(t, result.Valid)

	result, err = svc.Validate("PREMIUMUP", "premium")
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestCouponService_RecordRedemption(t *testing.T) {
	svc, db := setupCouponService(t)

	testutil.TestCoupon(t, db, testutil.WithCode("TRACKME"), testutil.WithMaxUses(2, 0))

	require.NoError(t, svc.RecordRedemption("TRACKME"))
	require.NoError(t, svc.RecordRedemption("TRACKME"))

	// 用满后立刻失效
	result, err := svc.Validate("TRACKME", "casual")
	require.NoError(t, err)
	assert.False(t, result.Valid)
}

func TestCouponService_UpdateAndDelete(t *testing.T) {
	svc, db := setupCouponService(t)

	coupon := testutil.TestCoupon(t, db, testutil.WithCode("EDITME"), testutil.WithDiscount(10))

	newDiscount := 25
	inactive := false
	updated, err := svc.Update(coupon.ID, &dto.UpdateCouponRequest{
		DiscountPercentage: &newDiscount,
		IsActive:           &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, 25, updated.DiscountPercentage)
	assert.False(t, updated.IsActive)

	require.NoError(t, svc.Delete(coupon.ID))
	assert.ErrorIs(t, svc.Delete(coupon.ID), ErrCouponNotFound)
}
