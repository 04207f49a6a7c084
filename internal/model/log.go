package model

import (
	"time"
)

// Log 审计日志，只追加，创建后不再修改或删除
type Log struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Type      string    `gorm:"size:20;not null;index:idx_logs_type_created" json:"type"` // payment, error, instagram, email, system
	Level     string    `gorm:"size:20;default:info" json:"level"`                        // info, warning, error, success
	Message   string    `gorm:"size:500;not null" json:"message"`
	Details   string    `gorm:"type:text" json:"details,omitempty"`
	UserID    *int64    `gorm:"index:idx_logs_user_created" json:"user_id,omitempty"`
	IPAddress string    `gorm:"size:50" json:"ip_address,omitempty"`
	UserAgent string    `gorm:"size:255" json:"user_agent,omitempty"`
	CreatedAt time.Time `gorm:"index:idx_logs_type_created;index:idx_logs_user_created" json:"created_at"`
}

func (Log) TableName() string {
	return "logs"
}
