package repository

import (
	"gorm.io/gorm"

	"github.com/iaworks/iaworks_server/internal/model"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(payment *model.Payment) error {
	return r.db.Create(payment).Error
}

func (r *PaymentRepository) GetByID(id int64) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.Where("id = ?", id).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepository) Update(payment *model.Payment) error {
	return r.db.Save(payment).Error
}

func (r *PaymentRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.Payment{}).Where("id = ?", id).Updates(fields).Error
}

func (r *PaymentRepository) ListByStatus(status string) ([]model.Payment, error) {
	var payments []model.Payment
	err := r.db.Where("status = ?", status).Order("created_at DESC").Find(&payments).Error
	return payments, err
}

func (r *PaymentRepository) ListByUser(userID int64) ([]model.Payment, error) {
	var payments []model.Payment
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&payments).Error
	return payments, err
}

func (r *PaymentRepository) ListRecent(limit int) ([]model.Payment, error) {
	var payments []model.Payment
	err := r.db.Order("created_at DESC").Limit(limit).Find(&payments).Error
	return payments, err
}

func (r *PaymentRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Payment{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// SumCompletedAmount 已完成支付的总收入
func (r *PaymentRepository) SumCompletedAmount() (int64, error) {
	var total int64
	err := r.db.Model(&model.Payment{}).
		Where("status = ?", "completed").
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
