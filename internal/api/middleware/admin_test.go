package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/iaworks/iaworks_server/config"
	"github.com/iaworks/iaworks_server/internal/pkg/jwt"
	"github.com/iaworks/iaworks_server/internal/pkg/response"
	"github.com/iaworks/iaworks_server/internal/repository"
	"github.com/iaworks/iaworks_server/internal/service"
	"github.com/iaworks/iaworks_server/internal/testutil"
)

func setupAdminRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	cfg := &config.Config{
		JWT:   config.JWTConfig{Secret: testJWTSecret, ExpireHours: 24},
		Plans: config.PlansConfig{Levels: config.DefaultPlanLevels(), DurationDays: 30},
	}
	userRepo := repository.NewUserRepository(db)
	audit := service.NewAuditService(repository.NewLogRepository(db))
	authService := service.NewAuthService(userRepo, cfg, nil, audit)

	router := gin.New()
	router.Use(Auth(testJWTSecret), AdminOnly(authService))
	router.GET("/admin", func(c *gin.Context) {
		response.Success(c, gin.H{"ok": true})
	})
	return router, db
}

func TestAdminOnly_AdminAllowed(t *testing.T) {
	router, db := setupAdminRouter(t)

	admin := testutil.TestUser(t, db, testutil.WithRole("admin"))
	token, err := jwt.GenerateToken(admin.ID, testJWTSecret, 24)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := parseResponse(t, w)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, response.CodeSuccess, resp.Code)
}

func TestAdminOnly_UserRejected(t *testing.T) {
	router, db := setupAdminRouter(t)

	user := testutil.TestUser(t, db)
	token, err := jwt.GenerateToken(user.ID, testJWTSecret, 24)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := parseResponse(t, w)
	assert.Equal(t, response.CodePermissionDenied, resp.Code)
}

func TestAdminOnly_UnknownUser(t *testing.T) {
	router, _ := setupAdminRouter(t)

	token, err := jwt.GenerateToken(99999, testJWTSecret, 24)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeAuthFailed, resp.Code)
}
