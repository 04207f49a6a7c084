package service

import (
	"encoding/json"
	"log"

	"github.com/iaworks/iaworks_server/internal/model"
	"github.com/iaworks/iaworks_server/internal/repository"
)

// AuditService 审计日志服务，写入失败只打日志不影响主流程
type AuditService struct {
	logRepo *repository.LogRepository
}

func NewAuditService(logRepo *repository.LogRepository) *AuditService {
	return &AuditService{logRepo: logRepo}
}

// Record 记录一条审计日志
func (s *AuditService) Record(logType, level, message string, details map[string]interface{}, userID *int64, ip, userAgent string) {
	entry := &model.Log{
		Type:      logType,
		Level:     level,
		Message:   message,
		UserID:    userID,
		IPAddress: ip,
		UserAgent: userAgent,
	}

	if details != nil {
		data, err := json.Marshal(details)
		if err != nil {
			log.Printf("Failed to marshal log details: %v", err)
		} else {
			entry.Details = string(data)
		}
	}

	if err := s.logRepo.Create(entry); err != nil {
		log.Printf("Failed to write audit log: %v", err)
	}
}

// List 查询审计日志
func (s *AuditService) List(logType, level string, limit int) ([]model.Log, error) {
	return s.logRepo.List(logType, level, limit)
}
