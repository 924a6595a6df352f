package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Kemuni/TimeInData/internal/notify"
)

func TestNextHour(t *testing.T) {
	cases := []struct{ in, want time.Time }{
		{
			time.Date(2024, time.May, 5, 13, 0, 0, 0, time.UTC),
			time.Date(2024, time.May, 5, 14, 0, 0, 0, time.UTC),
		},
		{
			time.Date(2024, time.May, 5, 13, 59, 59, 0, time.UTC),
			time.Date(2024, time.May, 5, 14, 0, 0, 0, time.UTC),
		},
		{
			time.Date(2024, time.May, 5, 23, 30, 0, 0, time.UTC),
			time.Date(2024, time.May, 6, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, c := range cases {
		if got := nextHour(c.in); !got.Equal(c.want) {
			t.Errorf("nextHour(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

type countingDispatcher struct {
	runs    atomic.Int32
	lastHr  atomic.Int32
	blockCh chan struct{}
}

func (d *countingDispatcher) RunOnce(_ context.Context, utcHour int) (notify.Summary, error) {
	d.runs.Add(1)
	d.lastHr.Store(int32(utcHour))
	if d.blockCh != nil {
		close(d.blockCh)
	}
	return notify.Summary{UTCHour: utcHour}, nil
}

func TestSchedulerFiresAtTopOfHour(t *testing.T) {
	dispatched := make(chan struct{})
	d := &countingDispatcher{blockCh: dispatched}
	s := New(d, zap.NewNop(), time.Minute)

	// Pin "now" just before an hour boundary so the first tick is near.
	base := time.Date(2024, time.May, 5, 13, 59, 59, 950_000_000, time.UTC)
	start := time.Now()
	s.now = func() time.Time { return base.Add(time.Since(start)) }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	select {
	case <-dispatched:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not fire at the hour boundary")
	}
	if got := d.lastHr.Load(); got != 14 {
		t.Fatalf("dispatched hour = %d, want 14", got)
	}
}

func TestSchedulerStopsOnCancel(t *testing.T) {
	d := &countingDispatcher{}
	s := New(d, zap.NewNop(), time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop on cancel")
	}
	if d.runs.Load() != 0 {
		t.Fatalf("unexpected dispatch runs: %d", d.runs.Load())
	}
}
