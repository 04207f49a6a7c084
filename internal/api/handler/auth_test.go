package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/iaworks/iaworks_server/config"
	"github.com/iaworks/iaworks_server/internal/api/middleware"
	"github.com/iaworks/iaworks_server/internal/model/dto"
	"github.com/iaworks/iaworks_server/internal/pkg/jwt"
	"github.com/iaworks/iaworks_server/internal/pkg/response"
	"github.com/iaworks/iaworks_server/internal/repository"
	"github.com/iaworks/iaworks_server/internal/service"
	"github.com/iaworks/iaworks_server/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:      "test-secret-key",
			ExpireHours: 24,
		},
		Admin: config.AdminConfig{
			BootstrapKey: "test-admin-key",
		},
		Plans: config.PlansConfig{
			Levels:       config.DefaultPlanLevels(),
			DurationDays: 30,
		},
		Policy: config.PolicyConfig{
			StrictPaymentStates: true,
		},
	}
}

func setupAuthHandler(t *testing.T) (*AuthHandler, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	userRepo := repository.NewUserRepository(db)
	audit := service.NewAuditService(repository.NewLogRepository(db))
	authService := service.NewAuthService(userRepo, testConfig(), nil, audit)
	return NewAuthHandler(authService), db
}

func performRequest(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func performAuthedRequest(t *testing.T, r http.Handler, method, path string, userID int64, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	token, err := jwt.GenerateToken(userID, "test-secret-key", 24)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	return resp
}

func TestAuthHandler_Register_Success(t *testing.T) {
	handler, _ := setupAuthHandler(t)

	router := gin.New()
	router.POST("/register", handler.Register)

	req := dto.RegisterRequest{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "password123",
	}

	w := performRequest(router, "POST", "/register", req)
	resp := parseResponse(t, w)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, response.CodeSuccess, resp.Code)
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	handler, _ := setupAuthHandler(t)

	router := gin.New()
	router.POST("/register", handler.Register)

	req := dto.RegisterRequest{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "password123",
	}

	w := performRequest(router, "POST", "/register", req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = performRequest(router, "POST", "/register", req)
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeParamError, resp.Code)
}

func TestAuthHandler_Register_InvalidBody(t *testing.T) {
	handler, _ := setupAuthHandler(t)

	router := gin.New()
	router.POST("/register", handler.Register)

	// 密码太短
	w := performRequest(router, "POST", "/register", dto.RegisterRequest{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "123",
	})
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeParamError, resp.Code)
}

func TestAuthHandler_Login_Success(t *testing.T) {
	handler, _ := setupAuthHandler(t)

	router := gin.New()
	router.POST("/register", handler.Register)
	router.POST("/login", handler.Login)

	performRequest(router, "POST", "/register", dto.RegisterRequest{
		Name:     "Test User",
		Email:    "login@example.com",
		Password: "password123",
	})

	w := performRequest(router, "POST", "/login", dto.LoginRequest{
		Email:    "login@example.com",
		Password: "password123",
	})
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeSuccess, resp.Code)
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	handler, _ := setupAuthHandler(t)

	router := gin.New()
	router.POST("/register", handler.Register)
	router.POST("/login", handler.Login)

	performRequest(router, "POST", "/register", dto.RegisterRequest{
		Name:     "Test User",
		Email:    "login@example.com",
		Password: "password123",
	})

	w := performRequest(router, "POST", "/login", dto.LoginRequest{
		Email:    "login@example.com",
		Password: "wrong-password",
	})
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeAuthFailed, resp.Code)
}

func TestAuthHandler_Me(t *testing.T) {
	handler, db := setupAuthHandler(t)

	router := gin.New()
	router.GET("/me", middleware.Auth("test-secret-key"), handler.Me)

	user := testutil.TestUser(t, db, testutil.WithEmail("me@example.com"))

	w := performAuthedRequest(t, router, "GET", "/me", user.ID, nil)
	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "me@example.com", data["email"])
}

func TestAuthHandler_CreateFirstAdmin_Guard(t *testing.T) {
	handler, _ := setupAuthHandler(t)

	router := gin.New()
	router.POST("/first-admin", handler.CreateFirstAdmin)
	router.GET("/admin-exists", handler.AdminExists)

	// 密钥错误
	w := performRequest(router, "POST", "/first-admin", dto.CreateFirstAdminRequest{
		Name:     "Root",
		Email:    "root@example.com",
		Password: "password123",
		AdminKey: "wrong-key",
	})
	resp := parseResponse(t, w)
	assert.Equal(t, response.CodePermissionDenied, resp.Code)

	// 密钥正确
	w = performRequest(router, "POST", "/first-admin", dto.CreateFirstAdminRequest{
		Name:     "Root",
		Email:    "root@example.com",
		Password: "password123",
		AdminKey: "test-admin-key",
	})
	resp = parseResponse(t, w)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	// 已有管理员后再创建被拒
	w = performRequest(router, "POST", "/first-admin", dto.CreateFirstAdminRequest{
		Name:     "Root2",
		Email:    "root2@example.com",
		Password: "password123",
		AdminKey: "test-admin-key",
	})
	resp = parseResponse(t, w)
	assert.Equal(t, response.CodePermissionDenied, resp.Code)

	w = performRequest(router, "GET", "/admin-exists", nil)
	resp = parseResponse(t, w)
	data := resp.Data.(map[string]interface{})
	assert.True(t, data["exists"].(bool))
}
