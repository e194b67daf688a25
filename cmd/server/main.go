package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "renthub-backend/internal/api/http"
	"renthub-backend/internal/config"
	"renthub-backend/internal/db"
	"renthub-backend/internal/jobs"
	"renthub-backend/internal/logger"
	"renthub-backend/internal/payment"
	"renthub-backend/internal/repository/postgres"
	"renthub-backend/internal/scheduler"
	"renthub-backend/internal/security"
	"renthub-backend/internal/service"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("starting renthub backend", "address", cfg.ServerAddress())

	database, err := db.Open(cfg.DatabaseDSN(), cfg.Database.MigrationsDir)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	logger.Info("database connection established",
		"host", cfg.Database.Host, "database", cfg.Database.Database)

	store := postgres.NewStore(database)
	tokens := security.NewTokenManager(cfg.JWT.Secret)
	gateway := payment.NewClient(cfg.Gateway.BaseURL, cfg.Gateway.ClientID, cfg.Gateway.APIKey, cfg.Gateway.RequestTimeout)
	emailSvc := service.NewEmailService(cfg.Email.SendGridAPIKey, cfg.Email.FromEmail, cfg.Email.FromName)

	notifier := service.NewNotificationService(store.NotificationRepository, store.UserRepository, emailSvc)
	walletSvc := service.NewWalletService(store, store.WalletRepository, gateway, cfg.Billing.Currency)
	withdrawalSvc := service.NewWithdrawalService(store, store.WalletRepository, walletSvc)
	callbackSvc := service.NewPaymentCallbackService(store, store.WalletRepository)
	disputeSvc := service.NewDisputeService(store, store.DisputeRepository, store.OrderRepository, store.ItemRepository, notifier)
	taxRate := func() float64 { return cfg.Billing.TaxRatePercent }
	orderSvc := service.NewOrderService(store, store.OrderRepository, store.ItemRepository, store.DisputeRepository, walletSvc, notifier, taxRate)

	router := api.NewRouter(api.Handlers{
		Orders:        api.NewOrderHandler(orderSvc),
		Wallet:        api.NewWalletHandler(walletSvc, withdrawalSvc),
		Admin:         api.NewAdminHandler(withdrawalSvc, disputeSvc, walletSvc),
		Webhooks:      api.NewWebhookHandler(callbackSvc),
		Notifications: api.NewNotificationHandler(notifier),
	}, tokens)

	jobRunner := jobs.NewJobRunner(store.OrderRepository, store.WalletRepository, notifier, cfg)
	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         cfg.ServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("http server listening", "address", cfg.ServerAddress())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
}
