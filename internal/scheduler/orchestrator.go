// Package scheduler runs the refresh stages once a day.
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fortuna/acbscout/internal/logging"
)

// Task is one scheduled refresh. Errors are logged and never stop the
// schedule.
type Task func(ctx context.Context) error

// Config holds scheduler configuration.
type Config struct {
	// DailyHour is the local hour, 0 to 23, at which the task runs.
	DailyHour int
	// RunNow runs the task once immediately before waiting.
	RunNow bool
}

// Orchestrator runs a Task every day at a fixed hour.
type Orchestrator struct {
	config Config
	task   Task
	now    func() time.Time
	after  func(time.Duration) <-chan time.Time
	logger *zap.Logger
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(task Task, config Config, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		config: config,
		task:   task,
		now:    time.Now,
		after:  time.After,
		logger: logging.OrNop(logger).Named("scheduler"),
	}
}

// NextRun returns the first time at hour:00 strictly after now, in now's
// location.
func NextRun(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Run blocks until ctx is cancelled, running the task once a day.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.logger.Info("scheduler started", zap.Int("daily_hour", o.config.DailyHour))
	if o.config.RunNow {
		o.runTask(ctx)
	}
	for {
		now := o.now()
		next := NextRun(now, o.config.DailyHour)
		wait := next.Sub(now)
		o.logger.Info("next run scheduled",
			zap.Time("at", next),
			zap.Duration("in", wait.Round(time.Second)))

		select {
		case <-ctx.Done():
			o.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-o.after(wait):
			o.runTask(ctx)
		}
	}
}

func (o *Orchestrator) runTask(ctx context.Context) {
	start := o.now()
	if err := o.task(ctx); err != nil {
		o.logger.Error("scheduled run failed", zap.Error(err))
		return
	}
	o.logger.Info("scheduled run complete", zap.Duration("took", o.now().Sub(start).Round(time.Second)))
}
