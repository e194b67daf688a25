package scheduler

import (
	"time"

	"renthub-backend/internal/jobs"
	"renthub-backend/internal/logger"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the maintenance jobs on their cron expressions.
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

func NewScheduler(jobRunner *jobs.JobRunner) *Scheduler {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)
	s := &Scheduler{cron: c, jobs: jobRunner}
	s.registerJobs()
	return s
}

func (s *Scheduler) registerJobs() {
	cfg := s.jobs.Config().Scheduler

	if _, err := s.cron.AddFunc(cfg.ExpireStaleDeposits, s.jobs.ExpireStaleDeposits); err != nil {
		logger.Error("failed to register ExpireStaleDeposits job", "error", err)
	}
	if _, err := s.cron.AddFunc(cfg.MarkOverdueOrders, s.jobs.MarkOverdueOrders); err != nil {
		logger.Error("failed to register MarkOverdueOrders job", "error", err)
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info("scheduler started")
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("scheduler stopped")
}
