package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// Syncer is the surface the scheduler drives.
type Syncer interface {
	SyncAll(ctx context.Context) (int, error)
	NeedsSync() bool
}

type Scheduler struct {
	syncer   Syncer
	interval time.Duration
	logger   *slog.Logger
}

func NewScheduler(syncer Syncer, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		syncer:   syncer,
		interval: interval,
		logger:   logger,
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval)

	s.runSync(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runSync(ctx)
		}
	}
}

func (s *Scheduler) runSync(ctx context.Context) {
	if !s.syncer.NeedsSync() {
		s.logger.Debug("sources still fresh, skipping pass")
		return
	}

	syncCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	count, err := s.syncer.SyncAll(syncCtx)
	if err != nil {
		s.logger.Error("sync pass failed", "error", err)
		return
	}
	s.logger.Info("sync pass completed", "new_articles", count)
}
