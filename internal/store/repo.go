package store

import (
	"context"
	"errors"
	"time"

	"github.com/Kemuni/TimeInData/internal/domain"
)

var (
	// ErrConflict is returned when an activity with the same (user, hour)
	// already exists. Records are append-only; a duplicate is surfaced to
	// the caller, never overwritten or swallowed.
	ErrConflict = errors.New("activity for this hour already recorded")

	// ErrFutureActivity rejects records timestamped after UTC now.
	ErrFutureActivity = errors.New("activity time is in the future")

	// ErrHourOutOfRange rejects notify hours outside 0..23.
	ErrHourOutOfRange = errors.New("notify hour must be within 0..23")

	// ErrTzOutOfRange rejects timezone offsets outside -12..+12.
	ErrTzOutOfRange = errors.New("timezone offset must be within -12..+12")
)

// Repo defines storage operations for users, activities and notification
// settings.
type Repo interface {
	UpsertUser(ctx context.Context, userID int64, username, language string) error

	// LastActivity returns the user's most recent activity by time, or nil
	// when the user has none yet.
	LastActivity(ctx context.Context, userID int64) (*domain.Activity, error)
	// AddActivities appends entries atomically; ErrConflict if any entry
	// duplicates an existing (user, hour).
	AddActivities(ctx context.Context, userID int64, entries []domain.Entry) error
	// ActivitySummary totals the user's logged hours per activity type,
	// ascending by type. Types with no hours are omitted.
	ActivitySummary(ctx context.Context, userID int64) ([]domain.ActivityCount, error)

	NotifyHours(ctx context.Context, userID int64) ([]int, error)
	SetNotifyHours(ctx context.Context, userID int64, hours []int) error
	TzDelta(ctx context.Context, userID int64) (int, error)
	SetTzDelta(ctx context.Context, userID int64, delta int) error

	// ListDue pages through ids of users whose notify hours contain the
	// given UTC hour, in ascending id order starting after afterID.
	ListDue(ctx context.Context, utcHour int, afterID int64, limit int) ([]int64, error)

	Close() error
}

// nowUTC is swappable in tests for the future-dated check.
var nowUTC = func() time.Time { return time.Now().UTC() }
