package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Config holds the dispatch tunables, injected at construction.
type Config struct {
	Text      string  // reminder text sent to every due user
	RetryCap  int     // bounded retries per recipient (rate-limit and transient paths)
	Workers   int     // concurrent deliveries
	PerSecond float64 // aggregate outbound ceiling across all workers
	Burst     int
	PageSize  int // directory page size
}

func (c Config) withDefaults() Config {
	if c.RetryCap <= 0 {
		c.RetryCap = 5
	}
	if c.Workers <= 0 {
		c.Workers = 8
	}
	if c.PerSecond <= 0 {
		c.PerSecond = 20
	}
	if c.Burst <= 0 {
		c.Burst = 5
	}
	if c.PageSize <= 0 {
		c.PageSize = 100
	}
	return c
}

// Dispatcher fans a reminder out to every user due at the current UTC hour.
// Recipients are delivered concurrently but throttled in aggregate, and one
// recipient's failure or rate-limit pause never blocks another's delivery.
// Each run is self-contained: no retry state survives between runs.
type Dispatcher struct {
	dir     Directory
	courier Courier
	log     *zap.Logger
	cfg     Config
	limiter *rate.Limiter
}

func New(dir Directory, courier Courier, log *zap.Logger, cfg Config) *Dispatcher {
	cfg = cfg.withDefaults()
	return &Dispatcher{
		dir:     dir,
		courier: courier,
		log:     log,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.PerSecond), cfg.Burst),
	}
}

// RunOnce delivers to everyone due at utcHour and returns the accounting.
// Cancelling ctx abandons recipients still pending; they are counted as
// failed, and the summary reflects every recipient the run saw. The
// returned error reports directory trouble only — individual delivery
// failures are counted, not propagated.
func (d *Dispatcher) RunOnce(ctx context.Context, utcHour int) (Summary, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := d.log.With(
		zap.String("run_id", runID),
		zap.Int("utc_hour", utcHour),
	)

	summary := Summary{RunID: runID, UTCHour: utcHour}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.cfg.Workers)

	var listErr error
	afterID := int64(0)
	for {
		ids, err := d.dir.ListDue(ctx, utcHour, afterID, d.cfg.PageSize)
		if err != nil {
			listErr = err
			log.Error("listing due users failed", zap.Error(err), zap.Int64("after_id", afterID))
			break
		}
		if len(ids) == 0 {
			break
		}
		afterID = ids[len(ids)-1]

		for _, id := range ids {
			id := id
			// Always return nil: a recipient's failure is accounting,
			// not a reason to cancel the rest of the run.
			g.Go(func() error {
				att := d.deliver(gctx, log, id)
				mu.Lock()
				summary.Total++
				if att.Outcome.delivered() {
					summary.Sent++
				} else {
					summary.Failed++
				}
				mu.Unlock()
				return nil
			})
		}
		if len(ids) < d.cfg.PageSize {
			break
		}
	}
	_ = g.Wait()

	summary.Elapsed = time.Since(start)
	log.Info("dispatch run finished",
		zap.Int("sent", summary.Sent),
		zap.Int("failed", summary.Failed),
		zap.Int("total", summary.Total),
		zap.Duration("elapsed", summary.Elapsed),
	)
	return summary, listErr
}

// deliver walks one recipient through Pending -> {Sent, Blocked, NotFound,
// RateLimited, Failed}. A rate-limited attempt sleeps the server-mandated
// delay (suspending only this recipient) and goes back to pending, up to
// the retry cap.
func (d *Dispatcher) deliver(ctx context.Context, log *zap.Logger, userID int64) Attempt {
	att := Attempt{UserID: userID, Outcome: OutcomePending}
	ulog := log.With(zap.Int64("user_id", userID))

	for {
		if ctx.Err() != nil {
			att.Outcome = OutcomeFailed
			ulog.Warn("delivery abandoned", zap.Error(ctx.Err()))
			return att
		}
		if err := d.limiter.Wait(ctx); err != nil {
			att.Outcome = OutcomeFailed
			ulog.Warn("delivery abandoned", zap.Error(err))
			return att
		}

		err := d.send(ctx, ulog, userID)
		var limited *RateLimitedError
		switch {
		case err == nil:
			att.Outcome = OutcomeSent
			ulog.Info("reminder sent", zap.Int("retries", att.Retries))
			return att

		case errors.Is(err, ErrBlocked):
			att.Outcome = OutcomeBlocked
			ulog.Warn("blocked by user")
			return att

		case errors.Is(err, ErrNotFound):
			att.Outcome = OutcomeNotFound
			ulog.Warn("unknown recipient")
			return att

		case errors.As(err, &limited):
			att.Outcome = OutcomeRateLimited
			att.Retries++
			if att.Retries > d.cfg.RetryCap {
				att.Outcome = OutcomeFailed
				ulog.Warn("rate limit retry cap exceeded", zap.Int("retries", att.Retries-1))
				return att
			}
			ulog.Warn("rate limited",
				zap.Duration("retry_after", limited.RetryAfter),
				zap.Int("retries", att.Retries),
			)
			if !sleepCtx(ctx, limited.RetryAfter) {
				att.Outcome = OutcomeFailed
				return att
			}
			att.Outcome = OutcomePending

		default:
			att.Outcome = OutcomeFailed
			ulog.Error("delivery failed", zap.Error(err))
			return att
		}
	}
}

// send performs one delivery, retrying transient transport errors with
// backoff. Terminal and rate-limit errors pass straight through to the
// caller's state machine.
func (d *Dispatcher) send(ctx context.Context, ulog *zap.Logger, userID int64) error {
	var lastErr error
	retryErr := retry.Do(
		func() error {
			lastErr = d.courier.SendReminder(ctx, userID, d.cfg.Text)
			if lastErr == nil {
				return nil
			}
			var limited *RateLimitedError
			if errors.Is(lastErr, ErrBlocked) || errors.Is(lastErr, ErrNotFound) || errors.As(lastErr, &limited) {
				return retry.Unrecoverable(lastErr)
			}
			return lastErr
		},
		retry.Context(ctx),
		retry.Attempts(uint(d.cfg.RetryCap)),
		retry.Delay(200*time.Millisecond),
		retry.MaxDelay(5*time.Second),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			ulog.Debug("retrying delivery", zap.Uint("attempt", n+1), zap.Error(err))
		}),
	)
	if retryErr != nil {
		return lastErr
	}
	return nil
}

// sleepCtx blocks for d or until ctx is done, reporting whether the full
// delay elapsed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
