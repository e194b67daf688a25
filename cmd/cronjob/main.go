// Manual job runner: executes the maintenance jobs once and exits.
// Useful for operators re-running reconciliation outside the schedule.
package main

import (
	"flag"
	"log"
	"os"

	"renthub-backend/internal/config"
	"renthub-backend/internal/db"
	"renthub-backend/internal/jobs"
	"renthub-backend/internal/logger"
	"renthub-backend/internal/repository/postgres"
	"renthub-backend/internal/service"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	job := flag.String("job", "all", "Job to run: all, expire-deposits, overdue-orders")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)

	database, err := db.Open(cfg.DatabaseDSN(), cfg.Database.MigrationsDir)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	store := postgres.NewStore(database)
	emailSvc := service.NewEmailService(cfg.Email.SendGridAPIKey, cfg.Email.FromEmail, cfg.Email.FromName)
	notifier := service.NewNotificationService(store.NotificationRepository, store.UserRepository, emailSvc)
	runner := jobs.NewJobRunner(store.OrderRepository, store.WalletRepository, notifier, cfg)

	switch *job {
	case "all":
		runner.RunAll()
	case "expire-deposits":
		runner.ExpireStaleDeposits()
	case "overdue-orders":
		runner.MarkOverdueOrders()
	default:
		log.Fatalf("unknown job %q", *job)
	}
}
