package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Kemuni/TimeInData/internal/notify"
)

// Dispatcher performs one notification fan-out for a UTC hour. notify's
// Dispatcher implements this.
type Dispatcher interface {
	RunOnce(ctx context.Context, utcHour int) (notify.Summary, error)
}

// Scheduler triggers a dispatch run at the top of every UTC hour. It only
// decides when to run; the Dispatcher owns everything about how.
type Scheduler struct {
	dispatcher Dispatcher
	log        *zap.Logger
	runTimeout time.Duration
	now        func() time.Time
}

// New creates a Scheduler. Each run is bounded by runTimeout so a slow
// fan-out cannot bleed into the next hour's run.
func New(dispatcher Dispatcher, log *zap.Logger, runTimeout time.Duration) *Scheduler {
	return &Scheduler{
		dispatcher: dispatcher,
		log:        log,
		runTimeout: runTimeout,
		now:        time.Now,
	}
}

// Run fires at each top of hour until ctx is canceled.
func (s *Scheduler) Run(ctx context.Context) {
	for {
		now := s.now().UTC()
		next := nextHour(now)
		timer := time.NewTimer(next.Sub(now))

		select {
		case <-ctx.Done():
			timer.Stop()
			s.log.Info("scheduler stopping")
			return
		case <-timer.C:
			s.tick(ctx, next.Hour())
		}
	}
}

// tick performs one scheduling cycle: run the dispatch for the hour that
// just began, under its own timeout.
func (s *Scheduler) tick(ctx context.Context, utcHour int) {
	runCtx, cancel := context.WithTimeout(ctx, s.runTimeout)
	defer cancel()

	summary, err := s.dispatcher.RunOnce(runCtx, utcHour)
	if err != nil {
		s.log.Error("dispatch run error", zap.Int("utc_hour", utcHour), zap.Error(err))
	}
	s.log.Info("hourly dispatch complete",
		zap.Int("utc_hour", utcHour),
		zap.Int("sent", summary.Sent),
		zap.Int("failed", summary.Failed),
		zap.Int("total", summary.Total),
	)
}

// nextHour returns the first top-of-hour instant strictly after t.
func nextHour(t time.Time) time.Time {
	return t.Truncate(time.Hour).Add(time.Hour)
}
