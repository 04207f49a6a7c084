package cron

import (
	"log"
	"time"

	"github.com/iaworks/iaworks_server/internal/service"
)

type Service struct {
	subscription    *service.SubscriptionService
	intervalMinutes int
	stopChan        chan struct{}
}

func NewService(subscription *service.SubscriptionService, intervalMinutes int) *Service {
	if intervalMinutes <= 0 {
		intervalMinutes = 60
	}
	return &Service{
		subscription:    subscription,
		intervalMinutes: intervalMinutes,
		stopChan:        make(chan struct{}),
	}
}

// Start 启动定时任务
func (s *Service) Start() {
	go s.runExpireSweep()
	log.Printf("Cron service started (expire sweep every %d minutes)", s.intervalMinutes)
}

// Stop 停止定时任务
func (s *Service) Stop() {
	close(s.stopChan)
	log.Println("Cron service stopped")
}

// runExpireSweep 周期性巡检过期订阅
func (s *Service) runExpireSweep() {
	ticker := time.NewTicker(time.Duration(s.intervalMinutes) * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Service) sweep() {
	count, err := s.subscription.ExpireOverdue(time.Now())
	if err != nil {
		log.Printf("Expire sweep failed: %v", err)
		return
	}
	if count > 0 {
		log.Printf("Expire sweep completed: %d subscriptions expired", count)
	}
}

// RunNow 立即执行一次过期巡检（用于测试或手动触发）
func (s *Service) RunNow() (int, error) {
	log.Println("Manual expire sweep triggered...")
	return s.subscription.ExpireOverdue(time.Now())
}
