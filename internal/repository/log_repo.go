package repository

import (
	"gorm.io/gorm"

	"github.com/iaworks/iaworks_server/internal/model"
)

// LogRepository 审计日志只支持创建和查询，不提供更新或删除
type LogRepository struct {
	db *gorm.DB
}

func NewLogRepository(db *gorm.DB) *LogRepository {
	return &LogRepository{db: db}
}

func (r *LogRepository) Create(entry *model.Log) error {
	return r.db.Create(entry).Error
}

// List 按类型/级别过滤查询，按时间倒序
func (r *LogRepository) List(logType, level string, limit int) ([]model.Log, error) {
	query := r.db.Model(&model.Log{})
	if logType != "" {
		query = query.Where("type = ?", logType)
	}
	if level != "" {
		query = query.Where("level = ?", level)
	}
	if limit <= 0 {
		limit = 100
	}

	var logs []model.Log
	err := query.Order("created_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
