package service

import (
	"gorm.io/gorm"

	"github.com/iaworks/iaworks_server/config"
	"github.com/iaworks/iaworks_server/internal/repository"
)

// newTestConfig 测试用配置：默认套餐表 + 30 天周期
func newTestConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Mode:        "debug",
			FrontendURL: "http://localhost:3000",
		},
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
	}
}

func newTestAudit(db *gorm.DB) *AuditService {
	return NewAuditService(repository.NewLogRepository(db))
}
