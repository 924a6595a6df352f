package notify

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Outbound delivery contract. A Courier maps its transport's failures onto
// this taxonomy so the dispatcher can tell what is terminal, what must wait,
// and what is worth another try.

var (
	// ErrBlocked means the recipient has blocked the bot. Terminal, never
	// retried.
	ErrBlocked = errors.New("blocked by recipient")

	// ErrNotFound means the recipient id is unknown to the transport.
	// Terminal, never retried.
	ErrNotFound = errors.New("recipient not found")
)

// RateLimitedError carries the server-mandated pause before the recipient
// may be retried.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
}

// Courier delivers one reminder to one recipient. Implementations return
// nil, ErrBlocked, ErrNotFound, *RateLimitedError, or any other error for a
// transient failure.
type Courier interface {
	SendReminder(ctx context.Context, userID int64, text string) error
}

// Directory answers which users are due at a given UTC hour, in pages, so a
// large fan-out never sits in memory at once.
type Directory interface {
	ListDue(ctx context.Context, utcHour int, afterID int64, limit int) ([]int64, error)
}
