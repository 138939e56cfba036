package assignment

import (
	"context"
	"time"

	"taskrewards-platform/pkg/config"
	"taskrewards-platform/pkg/task"

	"github.com/hibiken/asynq"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Scheduler enqueues the daily assignment task once per day at the
// configured local time.
type Scheduler struct {
	cfg      *config.Config
	enqueuer task.Enqueuer
}

func NewScheduler(cfg *config.Config, enqueuer task.Enqueuer) *Scheduler {
	return &Scheduler{cfg: cfg, enqueuer: enqueuer}
}

func StartScheduler(lc fx.Lifecycle, s *Scheduler) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go s.run(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}

func (s *Scheduler) run(ctx context.Context) {
	zap.L().Info("[Scheduler] started daily assignment scheduler",
		zap.Int("hour", s.cfg.Scheduler.Hour),
		zap.Int("minute", s.cfg.Scheduler.Minute))

	for {
		now := time.Now()
		next := nextRunTime(now, s.cfg.Scheduler.Hour, s.cfg.Scheduler.Minute)

		sleepDuration := next.Sub(now)
		zap.L().Info("[Scheduler] next run scheduled",
			zap.Time("next_run", next),
			zap.Duration("sleep_for", sleepDuration),
		)
		select {
		case <-time.After(sleepDuration):
			s.enqueueDaily()
		case <-ctx.Done():
			zap.L().Warn("[Scheduler] stopped")
			return
		}
	}
}

func (s *Scheduler) enqueueDaily() {
	start := time.Now()
	zap.L().Info("[Scheduler] enqueueing daily assignment job")

	if _, err := s.enqueuer.Enqueue(NewDailyAssignmentTask(), asynq.Queue("critical")); err != nil {
		zap.L().Error("[Scheduler] failed to enqueue daily assignment", zap.Error(err))
		return
	}

	zap.L().Info("[Scheduler] daily assignment enqueued",
		zap.Duration("duration", time.Since(start)),
	)
}

func nextRunTime(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if now.After(next) {
		next = next.Add(24 * time.Hour)
	}
	return next
}
