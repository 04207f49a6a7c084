package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/iaworks/iaworks_server/internal/model"
)

type SettingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

func (r *SettingRepository) GetByMethod(method string) (*model.PaymentSetting, error) {
	var setting model.PaymentSetting
	err := r.db.Where("method = ?", method).First(&setting).Error
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

// Upsert 按支付方式更新配置，不存在则创建
func (r *SettingRepository) Upsert(setting *model.PaymentSetting) error {
	var existing model.PaymentSetting
	err := r.db.Where("method = ?", setting.Method).First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return r.db.Create(setting).Error
		}
		return err
	}

	setting.ID = existing.ID
	setting.CreatedAt = existing.CreatedAt
	return r.db.Save(setting).Error
}

func (r *SettingRepository) ListAll() ([]model.PaymentSetting, error) {
	var settings []model.PaymentSetting
	err := r.db.Order("method").Find(&settings).Error
	return settings, err
}
