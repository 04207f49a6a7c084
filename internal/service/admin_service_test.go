package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/iaworks/iaworks_server/internal/repository"
	"github.com/iaworks/iaworks_server/internal/testutil"
)

func setupAdminService(t *testing.T) (*AdminService, *repository.UserRepository, *gorm.DB) {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	cfg := newTestConfig()
	userRepo := repository.NewUserRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	audit := newTestAudit(db)
	subscription := NewSubscriptionService(userRepo, cfg, audit)

	svc := NewAdminService(userRepo, paymentRepo, subscription, cfg, nil, audit)
	return svc, userRepo, db
}

func TestAdminService_ToggleUserStatus(t *testing.T) {
	svc, userRepo, db := setupAdminService(t)

	now := time.Now()
	user := testutil.TestUser(t, db, testutil.WithPlan("casual", now, now.Add(20*24*time.Hour)))

	status, err := svc.ToggleUserStatus(99, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "suspended", status)

	updated, err := userRepo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "suspended", updated.PlanStatus)

	// 再次切换恢复
	status, err = svc.ToggleUserStatus(99, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "active", status)
}

func TestAdminService_ToggleUserStatus_AdminForbidden(t *testing.T) {
	svc, _, db := setupAdminService(t)

	admin := testutil.TestUser(t, db, testutil.WithRole("admin"))

	_, err := svc.ToggleUserStatus(99, admin.ID)
	assert.ErrorIs(t, err, ErrCannotModifyAdmin)
}

func TestAdminService_ToggleUserStatus_NotFound(t *testing.T) {
	svc, _, _ := setupAdminService(t)

	_, err := svc.ToggleUserStatus(99, 12345)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAdminService_ChangeUserPlan(t *testing.T) {
	svc, userRepo, db := setupAdminService(t)

	user := testutil.TestUser(t, db)

	err := svc.ChangeUserPlan(99, user.ID, "golden")
	require.NoError(t, err)

	updated, err := userRepo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "golden", updated.Plan)
	assert.Equal(t, "active", updated.PlanStatus)
	require.NotNil(t, updated.PlanEndDate)
}

func TestAdminService_ChangeUserPlan_ClearToNone(t *testing.T) {
	svc, userRepo, db := setupAdminService(t)

	now := time.Now()
	user := testutil.TestUser(t, db,
		testutil.WithPlan("premium", now.Add(-5*24*time.Hour), now.Add(25*24*time.Hour)))

	err := svc.ChangeUserPlan(99, user.ID, "none")
	require.NoError(t, err)

	updated, err := userRepo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "none", updated.Plan)
}

func TestAdminService_ChangeUserPlan_InvalidPlan(t *testing.T) {
	svc, _, db := setupAdminService(t)

	user := testutil.TestUser(t, db)

	err := svc.ChangeUserPlan(99, user.ID, "diamond")
	assert.ErrorIs(t, err, ErrInvalidPlan)
}

func TestAdminService_ResetUserPassword(t *testing.T) {
	svc, userRepo, db := setupAdminService(t)

	user := testutil.TestUser(t, db)

	err := svc.ResetUserPassword(99, user.ID, "brand-new-password")
	require.NoError(t, err)

	updated, err := userRepo.GetByID(user.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword(
		[]byte(updated.PasswordHash), []byte("brand-new-password")))
}

func TestAdminService_ListUsers(t *testing.T) {
	svc, _, db := setupAdminService(t)

	testutil.TestUser(t, db)
	testutil.TestUser(t, db, testutil.WithRole("admin"))

	users, err := svc.ListUsers()
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestAdminService_DashboardStats(t *testing.T) {
	svc, _, db := setupAdminService(t)

	now := time.Now()
	end := now.Add(30 * 24 * time.Hour)
	subscriber := testutil.TestUser(t, db, testutil.WithPlan("premium", now, end))
	testutil.TestUser(t, db)
	testutil.TestUser(t, db, testutil.WithRole("admin"))

	testutil.TestPayment(t, db, subscriber.ID,
		testutil.WithPaymentPlan("premium", 40), testutil.WithPaymentStatus("completed"))
	testutil.TestPayment(t, db, subscriber.ID,
		testutil.WithPaymentPlan("golden", 60))

	stats, err := svc.DashboardStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.ActiveSubscriptions)
	assert.Equal(t, int64(40), stats.TotalRevenue)
	assert.Equal(t, int64(1), stats.PendingPayments)
	assert.Equal(t, int64(1), stats.UsersByPlan["premium"])
	assert.Len(t, stats.RecentPayments, 2)
}
