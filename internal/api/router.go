package api

import (
	"github.com/gin-gonic/gin"

	"github.com/iaworks/iaworks_server/config"
	"github.com/iaworks/iaworks_server/internal/api/handler"
	"github.com/iaworks/iaworks_server/internal/api/middleware"
	"github.com/iaworks/iaworks_server/internal/service"
)

type Router struct {
	authHandler         *handler.AuthHandler
	subscriptionHandler *handler.SubscriptionHandler
	paymentHandler      *handler.PaymentHandler
	adminHandler        *handler.AdminHandler
	websocketHandler    *handler.WebSocketHandler
	authService         *service.AuthService
	featureService      *service.FeatureService
	cfg                 *config.Config
}

func NewRouter(
	authHandler *handler.AuthHandler,
	subscriptionHandler *handler.SubscriptionHandler,
	paymentHandler *handler.PaymentHandler,
	adminHandler *handler.AdminHandler,
	websocketHandler *handler.WebSocketHandler,
	authService *service.AuthService,
	featureService *service.FeatureService,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:         authHandler,
		subscriptionHandler: subscriptionHandler,
		paymentHandler:      paymentHandler,
		adminHandler:        adminHandler,
		websocketHandler:    websocketHandler,
		authService:         authService,
		featureService:      featureService,
		cfg:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	api := engine.Group("/api/v1")
	{
		// WebSocket
		api.GET("/ws", r.websocketHandler.Handle)

		// 公开接口 - 认证
		auth := api.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
			auth.POST("/forgot-password", r.authHandler.ForgotPassword)
			auth.POST("/reset-password/:token", r.authHandler.ResetPassword)
			auth.GET("/admin-exists", r.authHandler.AdminExists)
			auth.POST("/first-admin", r.authHandler.CreateFirstAdmin)
		}

		// 需要认证的接口
		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(r.cfg.JWT.Secret))
		{
			// 账户
			me := authenticated.Group("/auth")
			{
				me.GET("/me", r.authHandler.Me)
				me.PUT("/profile", r.authHandler.UpdateProfile)
				me.PUT("/password", r.authHandler.UpdatePassword)
				me.PUT("/smtp", r.authHandler.UpdateSMTP)
				me.PUT("/instagram", r.authHandler.UpdateInstagram)
			}

			// 订阅
			subscription := authenticated.Group("/subscription")
			{
				subscription.GET("", r.subscriptionHandler.GetCurrent)
				subscription.PUT("/plan", r.subscriptionHandler.ChangePlan)
				subscription.POST("/renew", r.subscriptionHandler.Renew)
				subscription.POST("/cancel", r.subscriptionHandler.Cancel)
				subscription.GET("/features", r.subscriptionHandler.Features)
				subscription.POST("/validate-coupon", r.subscriptionHandler.ValidateCoupon)
			}

			// 支付
			payments := authenticated.Group("/payments")
			{
				payments.GET("", r.paymentHandler.MyPayments)
				payments.POST("/intent", r.paymentHandler.CreateIntent)
				payments.POST("/confirm/paypal", r.paymentHandler.ConfirmPaypal)
				payments.POST("/confirm/crypto", r.paymentHandler.ConfirmCrypto)
				payments.POST("/confirm/bank", r.paymentHandler.ConfirmBank)
				payments.POST("/:id/proof", r.paymentHandler.UploadBankProof)
			}

			// 功能入口：各业务模块挂在对应的功能门禁之后
			features := authenticated.Group("/features")
			{
				features.GET("/leads",
					middleware.RequireFeature(r.authService, r.featureService, "leadsExtraction"),
					r.subscriptionHandler.Features)
			}
		}

		// 管理端
		admin := api.Group("/admin")
		admin.Use(middleware.Auth(r.cfg.JWT.Secret), middleware.AdminOnly(r.authService))
		{
			admin.GET("/dashboard", r.adminHandler.Dashboard)
			admin.GET("/logs", r.adminHandler.Logs)

			admin.GET("/users", r.adminHandler.ListUsers)
			admin.POST("/users/toggle-status", r.adminHandler.ToggleUserStatus)
			admin.POST("/users/change-plan", r.adminHandler.ChangeUserPlan)
			admin.POST("/users/reset-password", r.adminHandler.ResetUserPassword)

			admin.GET("/payments/pending", r.adminHandler.PendingPayments)
			admin.POST("/payments/approve", r.adminHandler.ApprovePayment)
			admin.POST("/payments/reject", r.adminHandler.RejectPayment)
			admin.GET("/payment-settings", r.adminHandler.PaymentSettings)
			admin.PUT("/payment-settings", r.adminHandler.UpdatePaymentSetting)

			admin.GET("/coupons", r.adminHandler.ListCoupons)
			admin.POST("/coupons", r.adminHandler.CreateCoupon)
			admin.PUT("/coupons/:id", r.adminHandler.UpdateCoupon)
			admin.DELETE("/coupons/:id", r.adminHandler.DeleteCoupon)
		}
	}

	return engine
}
