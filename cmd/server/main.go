package main

import (
	"fmt"
	"log"
	"os"

	"github.com/iaworks/iaworks_server/config"
	"github.com/iaworks/iaworks_server/internal/api"
	"github.com/iaworks/iaworks_server/internal/api/handler"
	"github.com/iaworks/iaworks_server/internal/database"
	"github.com/iaworks/iaworks_server/internal/model"
	"github.com/iaworks/iaworks_server/internal/pkg/cron"
	"github.com/iaworks/iaworks_server/internal/pkg/email"
	"github.com/iaworks/iaworks_server/internal/pkg/oss"
	"github.com/iaworks/iaworks_server/internal/pkg/ws"
	"github.com/iaworks/iaworks_server/internal/repository"
	"github.com/iaworks/iaworks_server/internal/service"
)

func main() {
	// 加载配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	log.Println("Database connected")

	err = db.AutoMigrate(
		&model.User{},
		&model.Payment{},
		&model.Coupon{},
		&model.Log{},
		&model.PaymentSetting{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	// 初始化邮件服务
	emailService := email.NewService(&cfg.Email)

	// 初始化 OSS（未配置时银行回单上传不可用，不阻塞启动）
	var ossClient *oss.Client
	if cfg.OSS.Endpoint != "" {
		ossClient, err = oss.NewClient(&cfg.OSS)
		if err != nil {
			log.Printf("OSS unavailable, bank proof upload disabled: %v", err)
			ossClient = nil
		}
	}

	// 初始化 WebSocket Hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	logRepo := repository.NewLogRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	// 初始化 Service
	auditService := service.NewAuditService(logRepo)
	authService := service.NewAuthService(userRepo, cfg, emailService, auditService)
	subscriptionService := service.NewSubscriptionService(userRepo, cfg, auditService)
	featureService := service.NewFeatureService(cfg)
	paymentService := service.NewPaymentService(paymentRepo, settingRepo, userRepo, cfg, wsHub, auditService)
	approvalService := service.NewApprovalService(paymentRepo, userRepo, subscriptionService, cfg, emailService, wsHub, auditService)
	couponService := service.NewCouponService(couponRepo, cfg, auditService)
	adminService := service.NewAdminService(userRepo, paymentRepo, subscriptionService, cfg, rdb, auditService)

	// 初始化 Handler
	authHandler := handler.NewAuthHandler(authService)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptionService, featureService, couponService, authService)
	paymentHandler := handler.NewPaymentHandler(paymentService, authService, ossClient)
	adminHandler := handler.NewAdminHandler(adminService, paymentService, approvalService, couponService, auditService)
	websocketHandler := handler.NewWebSocketHandler(wsHub, authService, cfg.JWT.Secret)

	// 启动过期订阅巡检
	sweeper := cron.NewService(subscriptionService, cfg.Sweep.IntervalMinutes)
	sweeper.Start()
	defer sweeper.Stop()

	// 初始化 Router
	router := api.NewRouter(
		authHandler,
		subscriptionHandler,
		paymentHandler,
		adminHandler,
		websocketHandler,
		authService,
		featureService,
		cfg,
	)
	engine := router.Setup()

	// 启动服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
