package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iaworks/iaworks_server/internal/testutil"
)

func TestPaymentRepository_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewPaymentRepository(db)

	user := testutil.TestUser(t, db)
	payment := testutil.TestPayment(t, db, user.ID,
		testutil.WithPaymentPlan("golden", 60),
		testutil.WithMethod("bank_transfer"))

	found, err := repo.GetByID(payment.ID)
	require.NoError(t, err)
	assert.Equal(t, "golden", found.Plan)
	assert.Equal(t, 60, found.Amount)
	assert.Equal(t, "bank_transfer", found.Method)
	assert.Equal(t, "pending", found.Status)
}

func TestPaymentRepository_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewPaymentRepository(db)

	_, err := repo.GetByID(99999)
	assert.Error(t, err)
}

func TestPaymentRepository_ListByStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewPaymentRepository(db)

	user := testutil.TestUser(t, db)
	testutil.TestPayment(t, db, user.ID)
	testutil.TestPayment(t, db, user.ID)
	testutil.TestPayment(t, db, user.ID, testutil.WithPaymentStatus("completed"))

	pending, err := repo.ListByStatus("pending")
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	completed, err := repo.ListByStatus("completed")
	require.NoError(t, err)
	assert.Len(t, completed, 1)
}

func TestPaymentRepository_ListByUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewPaymentRepository(db)

	alice := testutil.TestUser(t, db)
	bob := testutil.TestUser(t, db)
	testutil.TestPayment(t, db, alice.ID)
	testutil.TestPayment(t, db, alice.ID)
	testutil.TestPayment(t, db, bob.ID)

	payments, err := repo.ListByUser(alice.ID)
	require.NoError(t, err)
	assert.Len(t, payments, 2)
	for _, p := range payments {
		assert.Equal(t, alice.ID, p.UserID)
	}
}

func TestPaymentRepository_UpdateFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewPaymentRepository(db)

	user := testutil.TestUser(t, db)
	payment := testutil.TestPayment(t, db, user.ID)

	now := time.Now()
	err := repo.UpdateFields(payment.ID, map[string]interface{}{
		"status":       "completed",
		"completed_at": now,
	})
	require.NoError(t, err)

	updated, err := repo.GetByID(payment.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", updated.Status)
	require.NotNil(t, updated.CompletedAt)
}

func TestPaymentRepository_SumCompletedAmount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewPaymentRepository(db)

	user := testutil.TestUser(t, db)
	testutil.TestPayment(t, db, user.ID,
		testutil.WithPaymentPlan("casual", 20), testutil.WithPaymentStatus("completed"))
	testutil.TestPayment(t, db, user.ID,
		testutil.WithPaymentPlan("golden", 60), testutil.WithPaymentStatus("completed"))
	// pending 不计入收入
	testutil.TestPayment(t, db, user.ID, testutil.WithPaymentPlan("premium", 40))

	total, err := repo.SumCompletedAmount()
	require.NoError(t, err)
	assert.Equal(t, int64(80), total)
}

func TestPaymentRepository_SumCompletedAmount_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewPaymentRepository(db)

	total, err := repo.SumCompletedAmount()
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}
