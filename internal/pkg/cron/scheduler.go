package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// jobTimeout bounds a single run so a hung query or channel call can never
// wedge the scheduler.
const jobTimeout = 5 * time.Minute

// Scheduler runs registered jobs on cron expressions.
type Scheduler struct {
	crontab *cron.Cron
}

// NewScheduler creates a new cron scheduler
func NewScheduler() *Scheduler {
	return &Scheduler{crontab: cron.New()}
}

// AddJob registers fn under a standard 5-field cron spec.
func (s *Scheduler) AddJob(name, spec string, fn func(ctx context.Context) error) error {
	_, err := s.crontab.AddFunc(spec, func() {
		s.executeJob(name, fn)
	})
	if err != nil {
		return err
	}
	slog.Info("Cron job registered", "name", name, "spec", spec)
	return nil
}

// Start begins running all scheduled jobs
func (s *Scheduler) Start() {
	s.crontab.Start()
	slog.Info("Cron scheduler started", "job_count", len(s.crontab.Entries()))
}

// Stop gracefully stops the scheduler and waits for running jobs
func (s *Scheduler) Stop() {
	slog.Info("Stopping cron scheduler...")
	<-s.crontab.Stop().Done()
	slog.Info("Cron scheduler stopped")
}

// executeJob executes a job and logs results
func (s *Scheduler) executeJob(name string, fn func(ctx context.Context) error) {
	start := time.Now()
	slog.Debug("Cron job starting", "name", name)

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := fn(ctx); err != nil {
		slog.Error("Cron job failed", "name", name, "error", err, "duration", time.Since(start))
	} else {
		slog.Debug("Cron job completed", "name", name, "duration", time.Since(start))
	}
}
