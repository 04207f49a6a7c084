package dto

// PlanInfo 当前订阅信息
type PlanInfo struct {
	Plan          string `json:"plan"`
	PlanStatus    string `json:"plan_status"`
	PlanStartDate string `json:"plan_start_date,omitempty"`
	PlanEndDate   string `json:"plan_end_date,omitempty"`
	PaymentMethod string `json:"payment_method,omitempty"`
	DaysRemaining *int   `json:"days_remaining,omitempty"`
}

// ChangePlanRequest 切换套餐请求
type ChangePlanRequest struct {
	NewPlan string `json:"new_plan" binding:"required"`
}
