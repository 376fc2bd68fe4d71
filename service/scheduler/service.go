package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/elC0mpa/ebs-reclaimer/service/logging"
	"github.com/inconshreveable/log15"
	"github.com/robfig/cron/v3"
)

// NewService wraps job in a cron runner. Overlapping firings are skipped
// rather than queued, so two runs never mutate the same account at once.
func NewService(schedule string, job Job, logger log15.Logger) *service {
	if logger == nil {
		logger = logging.Discard()
	}
	cronLogger := logging.CronLogger{Log: logger}

	return &service{
		schedule: schedule,
		job:      job,
		logger:   logger,
		cron: cron.New(
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
	}
}

// Run registers the job and blocks until ctx is cancelled, then waits for an
// in-flight job to finish.
func (s *service) Run(ctx context.Context) error {
	if err := s.start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	s.stop()
	return nil
}

func (s *service) start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.schedule, err)
	}

	if _, err := s.cron.AddFunc(s.schedule, func() { s.fire(ctx) }); err != nil {
		return fmt.Errorf("scheduling job: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("scheduler started", "schedule", s.schedule, "next_run", s.nextRun())
	return nil
}

func (s *service) fire(ctx context.Context) {
	start := time.Now()
	s.logger.Info("scheduled run starting")

	if err := s.job(ctx); err != nil {
		s.logger.Error("scheduled run failed", "error", err, "elapsed", time.Since(start))
		return
	}
	s.logger.Info("scheduled run completed", "elapsed", time.Since(start))
}

func (s *service) stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
	s.logger.Info("scheduler stopped")
}

func (s *service) nextRun() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}
