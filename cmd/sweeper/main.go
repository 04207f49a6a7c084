package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/iaworks/iaworks_server/config"
	"github.com/iaworks/iaworks_server/internal/database"
	"github.com/iaworks/iaworks_server/internal/repository"
	"github.com/iaworks/iaworks_server/internal/service"
)

var dryRun = flag.Bool("dry-run", true, "Dry run mode, don't actually expire subscriptions")

func main() {
	flag.Parse()

	log.Println("Starting subscription sweep...")
	log.Printf("Mode: dry-run=%v", *dryRun)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	now := time.Now()

	overdue, err := userRepo.ListActiveExpiredBefore(now)
	if err != nil {
		log.Fatalf("Failed to list overdue subscriptions: %v", err)
	}

	for _, user := range overdue {
		log.Printf("  - user %d (%s) plan=%s ended %s",
			user.ID, user.Email, user.Plan,
			user.PlanEndDate.Format("2006-01-02"))
	}

	if *dryRun {
		log.Printf("Found %d overdue subscriptions", len(overdue))
		log.Println("DRY RUN MODE - no subscriptions were expired")
		log.Println("Run with -dry-run=false to apply")
		return
	}

	audit := service.NewAuditService(repository.NewLogRepository(db))
	subscription := service.NewSubscriptionService(userRepo, cfg, audit)

	count, err := subscription.ExpireOverdue(now)
	if err != nil {
		log.Fatalf("Sweep failed: %v", err)
	}

	log.Printf("Sweep completed, %d subscriptions expired", count)
}
