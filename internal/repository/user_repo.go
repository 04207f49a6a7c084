package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/iaworks/iaworks_server/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepository) GetByID(id int64) (*model.User, error) {
	var user model.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByResetToken(tokenHash string, now time.Time) (*model.User, error) {
	var user model.User
	err := r.db.Where("reset_password_token = ? AND reset_password_expires_at > ?", tokenHash, now).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Update(user *model.User) error {
	return r.db.Save(user).Error
}

func (r *UserRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).Updates(fields).Error
}

func (r *UserRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// AdminExists 检查系统中是否已存在管理员
func (r *UserRepository) AdminExists() (bool, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("role = ?", "admin").Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) ListAll() ([]model.User, error) {
	var users []model.User
	err := r.db.Order("created_at DESC").Find(&users).Error
	return users, err
}

// ListActiveExpiredBefore 查询状态仍为 active 但已过期的用户（巡检用）
func (r *UserRepository) ListActiveExpiredBefore(now time.Time) ([]model.User, error) {
	var users []model.User
	err := r.db.Where("plan_status = ? AND plan_end_date IS NOT NULL AND plan_end_date < ?", "active", now).
		Find(&users).Error
	return users, err
}

func (r *UserRepository) CountByRole(role string) (int64, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

func (r *UserRepository) CountActiveSubscriptions() (int64, error) {
	var count int64
	err := r.db.Model(&model.User{}).
		Where("plan_status = ? AND plan <> ?", "active", "none").
		Count(&count).Error
	return count, err
}

// CountGroupByPlan 按套餐统计普通用户数量
func (r *UserRepository) CountGroupByPlan() (map[string]int64, error) {
	type row struct {
		Plan  string
		Count int64
	}
	var rows []row
	err := r.db.Model(&model.User{}).
		Select("plan, COUNT(*) as count").
		Where("role = ?", "user").
		Group("plan").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[string]int64, len(rows))
	for _, r := range rows {
		result[r.Plan] = r.Count
	}
	return result, nil
}
