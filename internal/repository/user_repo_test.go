package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iaworks/iaworks_server/internal/testutil"
)

func TestUserRepository_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	_ = NewUserRepository(db)

	email := "test@example.com"
	user := testutil.TestUser(t, db, testutil.WithEmail(email))

	assert.NotZero(t, user.ID)
	assert.Equal(t, email, user.Email)
	assert.NotEmpty(t, user.UUID)
}

func TestUserRepository_GetByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)

	// 创建测试用户
	created := testutil.TestUser(t, db)

	// 查询用户
	found, err := repo.GetByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, created.Email, found.Email)
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)

	_, err := repo.GetByID(99999)
	assert.Error(t, err)
}

func TestUserRepository_GetByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)

	email := "unique@example.com"
	testutil.TestUser(t, db, testutil.WithEmail(email))

	found, err := repo.GetByEmail(email)
	require.NoError(t, err)
	assert.Equal(t, email, found.Email)
}

func TestUserRepository_ExistsByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)

	email := "exists@example.com"
	testutil.TestUser(t, db, testutil.WithEmail(email))

	exists, err := repo.ExistsByEmail(email)
	require.NoError(t, err)
	assert.True(t, exists)

	notExists, err := repo.ExistsByEmail("notexists@example.com")
	require.NoError(t, err)
	assert.False(t, notExists)
}

func TestUserRepository_AdminExists(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)

	exists, err := repo.AdminExists()
	require.NoError(t, err)
	assert.False(t, exists)

	testutil.TestUser(t, db, testutil.WithRole("admin"))

	exists, err = repo.AdminExists()
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUserRepository_GetByResetToken(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)

	user := testutil.TestUser(t, db)
	tokenHash := "abcdef0123456789"
	expiresAt := time.Now().Add(10 * time.Minute)
	err := repo.UpdateFields(user.ID, map[string]interface{}{
		"reset_password_token":      tokenHash,
		"reset_password_expires_at": expiresAt,
	})
	require.NoError(t, err)

	found, err := repo.GetByResetToken(tokenHash, time.Now())
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	// 过期的 token 查不到
	_, err = repo.GetByResetToken(tokenHash, time.Now().Add(time.Hour))
	assert.Error(t, err)
}

func TestUserRepository_ListActiveExpiredBefore(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)

	now := time.Now()
	expired := testutil.TestUser(t, db,
		testutil.WithPlan("casual", now.Add(-40*24*time.Hour), now.Add(-10*24*time.Hour)))
	testutil.TestUser(t, db,
		testutil.WithPlan("premium", now, now.Add(30*24*time.Hour)))
	testutil.TestUser(t, db) // 无套餐，plan_end_date 为空

	users, err := repo.ListActiveExpiredBefore(now)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, expired.ID, users[0].ID)
}

func TestUserRepository_CountGroupByPlan(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)

	now := time.Now()
	end := now.Add(30 * 24 * time.Hour)
	testutil.TestUser(t, db, testutil.WithPlan("casual", now, end))
	testutil.TestUser(t, db, testutil.WithPlan("casual", now, end))
	testutil.TestUser(t, db, testutil.WithPlan("golden", now, end))
	// 管理员不计入统计
	testutil.TestUser(t, db, testutil.WithRole("admin"))

	counts, err := repo.CountGroupByPlan()
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts["casual"])
	assert.Equal(t, int64(1), counts["golden"])
	assert.NotContains(t, counts, "premium")
}

func TestUserRepository_CountActiveSubscriptions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)

	now := time.Now()
	end := now.Add(30 * 24 * time.Hour)
	testutil.TestUser(t, db, testutil.WithPlan("premium", now, end))
	testutil.TestUser(t, db, testutil.WithPlan("casual", now, end), testutil.WithPlanStatus("suspended"))
	testutil.TestUser(t, db) // plan=none 不计

	count, err := repo.CountActiveSubscriptions()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
