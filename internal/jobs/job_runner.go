package jobs

import (
	"renthub-backend/internal/config"
	"renthub-backend/internal/logger"
	"renthub-backend/internal/repository"
	"renthub-backend/internal/service"
)

// JobRunner coordinates the scheduled maintenance jobs.
type JobRunner struct {
	orders   repository.OrderRepository
	wallets  repository.WalletRepository
	notifier service.Notifier
	cfg      *config.Config
}

func NewJobRunner(orders repository.OrderRepository, wallets repository.WalletRepository, notifier service.Notifier, cfg *config.Config) *JobRunner {
	return &JobRunner{
		orders:   orders,
		wallets:  wallets,
		notifier: notifier,
		cfg:      cfg,
	}
}

func (jr *JobRunner) Config() *config.Config { return jr.cfg }

func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("job panicked", "job", jobName, "panic", r)
		}
	}()
	logger.Info("starting job", "job", jobName)
	jobFunc()
	logger.Info("job completed", "job", jobName)
}

// RunAll runs every job once, for manual execution from the cronjob
// binary.
func (jr *JobRunner) RunAll() {
	jr.ExpireStaleDeposits()
	jr.MarkOverdueOrders()
}
