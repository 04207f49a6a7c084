package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/iaworks/iaworks_server/internal/model"
)

func featureTestUser(plan, status string, end *time.Time) *model.User {
	return &model.User{
		ID:          1,
		Plan:        plan,
		PlanStatus:  status,
		PlanEndDate: end,
	}
}

func TestFeatureService_CheckAccess_Matrix(t *testing.T) {
	svc := NewFeatureService(newTestConfig())
	end := time.Now().Add(10 * 24 * time.Hour)

	cases := []struct {
		plan    string
		feature string
		allowed bool
	}{
		{"casual", "leadsExtraction", true},
		{"casual", "emailMarketing", false},
		{"casual", "instagramSetter", false},
		{"casual", "autoAgenda", false},
		{"premium", "leadsExtraction", true},
		{"premium", "emailMarketing", true},
		{"premium", "instagramSetter", false},
		{"golden", "leadsExtraction", true},
		{"golden", "emailMarketing", true},
		{"golden", "instagramSetter", true},
		{"golden", "autoAgenda", true},
	}

	for _, tc := range cases {
		user := featureTestUser(tc.plan, "active", &end)
		err := svc.CheckAccess(user, tc.feature, time.Now())
		if tc.allowed {
			assert.NoError(t, err, "%s should access %s", tc.plan, tc.feature)
		} else {
			assert.ErrorIs(t, err, ErrFeatureDenied, "%s should not access %s", tc.plan, tc.feature)
		}
	}
}

func TestFeatureService_CheckAccess_NoPlan(t *testing.T) {
	svc := NewFeatureService(newTestConfig())

	err := svc.CheckAccess(featureTestUser("none", "active", nil), "leadsExtraction", time.Now())
	assert.ErrorIs(t, err, ErrPlanRequired)
}

func TestFeatureService_CheckAccess_Suspended(t *testing.T) {
	svc := NewFeatureService(newTestConfig())
	end := time.Now().Add(10 * 24 * time.Hour)

	err := svc.CheckAccess(featureTestUser("golden", "suspended", &end), "leadsExtraction", time.Now())
	assert.ErrorIs(t, err, ErrPlanNotActive)
}

func TestFeatureService_CheckAccess_Expired(t *testing.T) {
	svc := NewFeatureService(newTestConfig())
	end := time.Now().Add(-24 * time.Hour)

	err := svc.CheckAccess(featureTestUser("golden", "active", &end), "leadsExtraction", time.Now())
	assert.ErrorIs(t, err, ErrPlanExpired)
}

func TestFeatureService_CheckAccess_Cancelled(t *testing.T) {
	svc := NewFeatureService(newTestConfig())
	end := time.Now().Add(5 * 24 * time.Hour)

	// 取消后即使仍在已付周期内也不再放行，需要续期重新激活
	err := svc.CheckAccess(featureTestUser("premium", "cancelled", &end), "emailMarketing", time.Now())
	assert.ErrorIs(t, err, ErrPlanNotActive)
}

func TestFeatureService_CheckAccess_UnknownFeature(t *testing.T) {
	svc := NewFeatureService(newTestConfig())
	end := time.Now().Add(10 * 24 * time.Hour)

	err := svc.CheckAccess(featureTestUser("golden", "active", &end), "timeTravel", time.Now())
	assert.ErrorIs(t, err, ErrUnknownFeature)
}

func TestFeatureService_PlansWithFeature(t *testing.T) {
	svc := NewFeatureService(newTestConfig())

	assert.Equal(t, []string{"casual", "golden", "premium"}, svc.PlansWithFeature("leadsExtraction"))
	assert.Equal(t, []string{"golden", "premium"}, svc.PlansWithFeature("emailMarketing"))
	assert.Equal(t, []string{"golden"}, svc.PlansWithFeature("autoAgenda"))
	assert.Empty(t, svc.PlansWithFeature("timeTravel"))
}

func TestFeatureService_ListAccessible(t *testing.T) {
	svc := NewFeatureService(newTestConfig())
	end := time.Now().Add(10 * 24 * time.Hour)

	features := svc.ListAccessible(featureTestUser("premium", "active", &end), time.Now())
	assert.ElementsMatch(t, []string{"leadsExtraction", "emailMarketing"}, features)

	features = svc.ListAccessible(featureTestUser("none", "active", nil), time.Now())
	assert.Empty(t, features)
}
