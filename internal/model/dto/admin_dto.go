package dto

// ToggleUserStatusRequest 挂起/恢复用户请求
type ToggleUserStatusRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
}

// ChangeUserPlanRequest 管理员修改用户套餐请求
type ChangeUserPlanRequest struct {
	UserID  int64  `json:"user_id" binding:"required"`
	NewPlan string `json:"new_plan" binding:"required"`
}

// ResetUserPasswordRequest 管理员重置用户密码请求
type ResetUserPasswordRequest struct {
	UserID      int64  `json:"user_id" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=64"`
}

// PaymentSummary 管理端支付记录摘要
type PaymentSummary struct {
	ID            int64  `json:"id"`
	UserID        int64  `json:"user_id"`
	UserName      string `json:"user_name"`
	UserEmail     string `json:"user_email"`
	Plan          string `json:"plan"`
	Amount        int    `json:"amount"`
	PaymentMethod string `json:"payment_method"`
	Status        string `json:"status"`
	CreatedAt     string `json:"created_at"`
}

// DashboardStats 管理端仪表盘统计
type DashboardStats struct {
	TotalUsers          int64            `json:"total_users"`
	ActiveSubscriptions int64            `json:"active_subscriptions"`
	TotalRevenue        int64            `json:"total_revenue"`
	PendingPayments     int64            `json:"pending_payments"`
	UsersByPlan         map[string]int64 `json:"users_by_plan"`
	RecentPayments      []PaymentSummary `json:"recent_payments"`
}
