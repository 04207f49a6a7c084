package service

import (
	"errors"
	"sort"
	"time"

	"github.com/iaworks/iaworks_server/config"
	"github.com/iaworks/iaworks_server/internal/model"
)

var (
	ErrPlanRequired   = errors.New("该功能需要订阅套餐")
	ErrPlanNotActive  = errors.New("订阅未生效")
	ErrPlanExpired    = errors.New("订阅已过期")
	ErrFeatureDenied  = errors.New("当前套餐不包含该功能")
	ErrUnknownFeature = errors.New("未知的功能")
)

// FeatureService 功能门禁：根据用户套餐判断功能是否可用。
// 套餐与功能的对应关系来自配置，运行期不可变。
type FeatureService struct {
	cfg *config.Config
}

func NewFeatureService(cfg *config.Config) *FeatureService {
	return &FeatureService{cfg: cfg}
}

// PlanFeatures 某套餐包含的功能列表
func (s *FeatureService) PlanFeatures(plan string) []string {
	level, ok := s.cfg.Plans.Levels[plan]
	if !ok {
		return nil
	}
	return level.Features
}

// PlansWithFeature 包含某功能的所有套餐，用于提示用户需要升级到哪些套餐
func (s *FeatureService) PlansWithFeature(feature string) []string {
	var plans []string
	for name, level := range s.cfg.Plans.Levels {
		for _, f := range level.Features {
			if f == feature {
				plans = append(plans, name)
				break
			}
		}
	}
	sort.Strings(plans)
	return plans
}

// KnownFeature 功能名是否在任一套餐中出现过
func (s *FeatureService) KnownFeature(feature string) bool {
	return len(s.PlansWithFeature(feature)) > 0
}

// CheckAccess 判断用户此刻能否使用某功能。
// 依次检查：是否订阅、订阅状态、是否过期、套餐是否包含该功能。
func (s *FeatureService) CheckAccess(user *model.User, feature string, now time.Time) error {
	if !s.KnownFeature(feature) {
		return ErrUnknownFeature
	}

	if user.Plan == "" || user.Plan == "none" {
		return ErrPlanRequired
	}

	// 只有 active 状态可以使用功能；cancelled 需要先续期重新激活
	if user.PlanStatus != "active" {
		return ErrPlanNotActive
	}

	if user.PlanEndDate == nil || now.After(*user.PlanEndDate) {
		return ErrPlanExpired
	}

	for _, f := range s.PlanFeatures(user.Plan) {
		if f == feature {
			return nil
		}
	}
	return ErrFeatureDenied
}

// ListAccessible 用户当前可用的功能列表，不可用时返回空列表
func (s *FeatureService) ListAccessible(user *model.User, now time.Time) []string {
	features := s.PlanFeatures(user.Plan)
	accessible := make([]string, 0, len(features))
	for _, f := range features {
		if err := s.CheckAccess(user, f, now); err == nil {
			accessible = append(accessible, f)
		}
	}
	return accessible
}
