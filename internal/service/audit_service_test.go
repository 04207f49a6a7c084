package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iaworks/iaworks_server/internal/model"
	"github.com/iaworks/iaworks_server/internal/testutil"
)

func TestAuditService_RecordAndList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	audit := newTestAudit(db)

	userID := int64(7)
	audit.Record("system", "info", "plan renewed",
		map[string]interface{}{"plan": "premium"}, &userID, "127.0.0.1", "test-agent")
	audit.Record("payment", "warning", "proof resubmitted", nil, &userID, "", "")

	logs, err := audit.List("system", "", 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "plan renewed", logs[0].Message)
	assert.Contains(t, logs[0].Details, "premium")
}

// 日志类型是固定的五种：payment、error、instagram、email、system。
// 订阅、优惠券等业务事件统一记为 system。
func TestAuditService_TypesStayWithinTaxonomy(t *testing.T) {
	svc, _, db := setupSubscriptionService(t, newTestConfig())

	now := time.Now()
	user := testutil.TestUser(t, db,
		testutil.WithPlan("casual", now.Add(-25*24*time.Hour), now.Add(5*24*time.Hour)))

	_, err := svc.RenewPlan(user.ID)
	require.NoError(t, err)
	require.NoError(t, svc.CancelPlan(user.ID))

	var logs []model.Log
	require.NoError(t, db.Find(&logs).Error)
	require.NotEmpty(t, logs)

	allowed := map[string]bool{
		"payment": true, "error": true, "instagram": true, "email": true, "system": true,
	}
	for _, entry := range logs {
		assert.True(t, allowed[entry.Type], "unexpected log type %q", entry.Type)
	}
}
