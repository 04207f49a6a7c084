package dto

// RegisterRequest 注册请求
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=64"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse 注册/登录响应
type AuthResponse struct {
	Token string    `json:"token"`
	User  *UserInfo `json:"user"`
}

// UserInfo 用户信息（返回给前端）
type UserInfo struct {
	ID                  int64  `json:"id"`
	UUID                string `json:"uuid"`
	Name                string `json:"name"`
	Email               string `json:"email"`
	Role                string `json:"role"`
	Plan                string `json:"plan"`
	PlanStatus          string `json:"plan_status"`
	PlanStartDate       string `json:"plan_start_date,omitempty"`
	PlanEndDate         string `json:"plan_end_date,omitempty"`
	SMTPConfigured      bool   `json:"smtp_configured"`
	InstagramConfigured bool   `json:"instagram_configured"`
	CreatedAt           string `json:"created_at,omitempty"`
}

// UpdateProfileRequest 更新个人资料请求
type UpdateProfileRequest struct {
	Name  *string `json:"name,omitempty" binding:"omitempty,min=2,max=100"`
	Email *string `json:"email,omitempty" binding:"omitempty,email"`
}

// UpdatePasswordRequest 修改密码请求
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6,max=64"`
}

// ForgotPasswordRequest 找回密码请求
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest 重置密码请求
type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=6,max=64"`
}

// CreateFirstAdminRequest 创建首个管理员请求
type CreateFirstAdminRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=64"`
	AdminKey string `json:"admin_key" binding:"required"`
}

// UpdateSMTPRequest 更新用户 SMTP 配置请求
type UpdateSMTPRequest struct {
	Host string `json:"host" binding:"required"`
	Port int    `json:"port" binding:"required"`
	User string `json:"user" binding:"required"`
	Pass string `json:"pass" binding:"required"`
}

// UpdateInstagramRequest 更新用户 Instagram 配置请求
type UpdateInstagramRequest struct {
	Username          string `json:"username" binding:"required"`
	AccessToken       string `json:"access_token" binding:"required"`
	BusinessAccountID string `json:"business_account_id" binding:"required"`
}
