// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package maintenance runs scheduled housekeeping jobs.
package maintenance

import (
	"context"
	"log/slog"
	"time"

	"codeberg.org/zblogs/zblogs-api/internal/metrics"
	"github.com/robfig/cron/v3"
)

const (
	defaultSchedule = "@every 1m"
	jobTimeout      = 30 * time.Second
)

// Purger removes expired one-time codes.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// Cleaner purges expired codes on a cron schedule.
type Cleaner struct {
	purger   Purger
	cron     *cron.Cron
	schedule string
}

// Option customises the Cleaner.
type Option func(*Cleaner)

// WithCron injects a preconfigured cron instance.
func WithCron(c *cron.Cron) Option {
	return func(cleaner *Cleaner) {
		if c != nil {
			cleaner.cron = c
		}
	}
}

// WithSchedule overrides the cron schedule for the purge job.
func WithSchedule(schedule string) Option {
	return func(cleaner *Cleaner) {
		if schedule != "" {
			cleaner.schedule = schedule
		}
	}
}

// NewCleaner constructs a Cleaner. A nil purger disables the job.
func NewCleaner(purger Purger, opts ...Option) *Cleaner {
	cleaner := &Cleaner{
		purger:   purger,
		schedule: defaultSchedule,
	}
	for _, opt := range opts {
		opt(cleaner)
	}
	if cleaner.cron == nil {
		cleaner.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}
	return cleaner
}

// Start registers the purge job and launches the scheduler.
func (c *Cleaner) Start() error {
	if c.purger == nil {
		return nil
	}

	if _, err := c.cron.AddFunc(c.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		if _, err := c.RunOnce(ctx); err != nil {
			slog.Warn("otp_purge_failed", "error", err)
		}
	}); err != nil {
		return err
	}

	c.cron.Start()
	slog.Info("maintenance_started", "schedule", c.schedule)
	return nil
}

// Stop halts the scheduler. The returned context is done once running jobs finish.
func (c *Cleaner) Stop() context.Context {
	return c.cron.Stop()
}

// RunOnce purges expired codes immediately.
func (c *Cleaner) RunOnce(ctx context.Context) (int64, error) {
	if c.purger == nil {
		return 0, nil
	}

	n, err := c.purger.PurgeExpired(ctx)
	if err != nil {
		return 0, err
	}
	metrics.OTPPurged(n)
	if n > 0 {
		slog.Debug("otp_purged", "count", n)
	}
	return n, nil
}
