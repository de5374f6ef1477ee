// Package scheduler runs periodic maintenance jobs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// ConsentExpirer expires consents whose validity window has ended.
type ConsentExpirer interface {
	Execute(ctx context.Context, now time.Time) (int, error)
}

// ConsentSweeper periodically expires stale Open Finance consents.
type ConsentSweeper struct {
	cron    *cron.Cron
	expirer ConsentExpirer
	logger  *slog.Logger
	timeout time.Duration
	now     func() time.Time
}

// NewConsentSweeper registers the sweep on schedule. Any expression accepted by
// cron.ParseStandard works, including descriptors such as "@every 1h".
func NewConsentSweeper(schedule string, expirer ConsentExpirer, logger *slog.Logger) (*ConsentSweeper, error) {
	s := &ConsentSweeper{
		cron:    cron.New(cron.WithChain(cron.Recover(cronLogger{logger}))),
		expirer: expirer,
		logger:  logger,
		timeout: time.Minute,
		now:     time.Now,
	}
	if _, err := s.cron.AddFunc(schedule, func() { s.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("schedule consent sweep %q: %w", schedule, err)
	}
	return s, nil
}

// Start begins running the sweep in the background.
func (s *ConsentSweeper) Start() {
	s.cron.Start()
	s.logger.Info("consent sweeper started")
}

// Stop halts the schedule and waits for a running sweep to finish or ctx to
// be done.
func (s *ConsentSweeper) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn("consent sweeper stop timed out")
	}
}

// RunOnce performs a single sweep and returns the number of consents expired.
func (s *ConsentSweeper) RunOnce(ctx context.Context) int {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	expired, err := s.expirer.Execute(ctx, s.now().UTC())
	if err != nil {
		s.logger.Error("consent sweep failed", "expired", expired, "error", err)
		return expired
	}
	if expired > 0 {
		s.logger.Info("consent sweep completed", "expired", expired)
	}
	return expired
}

// cronLogger routes cron's internal logging through slog.
type cronLogger struct{ logger *slog.Logger }

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
