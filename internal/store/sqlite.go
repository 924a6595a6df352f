package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/Kemuni/TimeInData/internal/domain"
)

// SQLiteRepo implements Repo using an embedded SQLite database.
type SQLiteRepo struct{ db *sql.DB }

// OpenSQLite opens (or creates) the SQLite database at the given path,
// applies recommended PRAGMAs, runs SQL migrations, and returns a repository.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepo, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Single-writer engine; keep the pool at one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return &SQLiteRepo{db: db}, nil
}

func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying database resources.
func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

// UpsertUser inserts the user on first contact and refreshes the profile
// fields (and last-seen stamp) on every later one. Settings are untouched.
func (r *SQLiteRepo) UpsertUser(ctx context.Context, userID int64, username, language string) error {
	now := nowUTC().Unix()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (user_id, username, language, joined_at, last_seen_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			username     = excluded.username,
			language     = excluded.language,
			last_seen_at = excluded.last_seen_at`,
		userID, username, language, now, now,
	)
	return err
}

// LastActivity returns the user's most recent activity, nil when the user
// has never logged one.
func (r *SQLiteRepo) LastActivity(ctx context.Context, userID int64) (*domain.Activity, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT type, time_utc
		FROM activities
		WHERE user_id = ?
		ORDER BY time_utc DESC
		LIMIT 1`,
		userID,
	)

	var (
		actType int
		timeUTC int64
	)
	if err := row.Scan(&actType, &timeUTC); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &domain.Activity{
		UserID: userID,
		Type:   domain.ActivityType(actType),
		Time:   time.Unix(timeUTC, 0).UTC(),
	}, nil
}

// AddActivities appends the entries in one transaction. Any duplicate
// (user, hour) aborts the whole batch with ErrConflict; a future-dated
// entry aborts with ErrFutureActivity.
func (r *SQLiteRepo) AddActivities(ctx context.Context, userID int64, entries []domain.Entry) error {
	now := nowUTC()
	for _, e := range entries {
		if e.Time.After(now) {
			return fmt.Errorf("%w: %s", ErrFutureActivity, e.Time.Format(time.RFC3339))
		}
		if !e.Type.Valid() {
			return fmt.Errorf("unknown activity type %d", int(e.Type))
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO activities (user_id, type, time_utc)
			VALUES (?, ?, ?)`,
			userID, int(e.Type), e.Time.UTC().Unix(),
		); err != nil {
			_ = tx.Rollback()
			if isConstraintViolation(err) {
				return fmt.Errorf("%w: %s", ErrConflict, e.Time.Format(time.RFC3339))
			}
			return err
		}
	}
	return tx.Commit()
}

// ActivitySummary totals logged hours per activity type for the user.
func (r *SQLiteRepo) ActivitySummary(ctx context.Context, userID int64) ([]domain.ActivityCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT type, COUNT(*)
		FROM activities
		WHERE user_id = ?
		GROUP BY type
		ORDER BY type`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []domain.ActivityCount
	for rows.Next() {
		var (
			actType int
			hours   int
		)
		if err := rows.Scan(&actType, &hours); err != nil {
			return nil, err
		}
		counts = append(counts, domain.ActivityCount{
			Type:  domain.ActivityType(actType),
			Hours: hours,
		})
	}
	return counts, rows.Err()
}

// NotifyHours returns the user's reminder hours in ascending order.
func (r *SQLiteRepo) NotifyHours(ctx context.Context, userID int64) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT hour FROM notify_hours
		WHERE user_id = ?
		ORDER BY hour`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hours []int
	for rows.Next() {
		var h int
		if err := rows.Scan(&h); err != nil {
			return nil, err
		}
		hours = append(hours, h)
	}
	return hours, rows.Err()
}

// SetNotifyHours replaces the user's reminder hours. Out-of-range hours are
// rejected outright, never clamped.
func (r *SQLiteRepo) SetNotifyHours(ctx context.Context, userID int64, hours []int) error {
	for _, h := range hours {
		if h < 0 || h > 23 {
			return fmt.Errorf("%w: %d", ErrHourOutOfRange, h)
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM notify_hours WHERE user_id = ?`, userID); err != nil {
		_ = tx.Rollback()
		return err
	}
	for _, h := range hours {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO notify_hours (user_id, hour) VALUES (?, ?)
			ON CONFLICT(user_id, hour) DO NOTHING`,
			userID, h,
		); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// TzDelta returns the user's timezone offset in hours from UTC.
func (r *SQLiteRepo) TzDelta(ctx context.Context, userID int64) (int, error) {
	var delta int
	err := r.db.QueryRowContext(ctx,
		`SELECT tz_delta FROM users WHERE user_id = ?`, userID,
	).Scan(&delta)
	return delta, err
}

// SetTzDelta stores a new timezone offset, rejecting values outside the
// supported band.
func (r *SQLiteRepo) SetTzDelta(ctx context.Context, userID int64, delta int) error {
	if delta < -12 || delta > 12 {
		return fmt.Errorf("%w: %d", ErrTzOutOfRange, delta)
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET tz_delta = ? WHERE user_id = ?`, delta, userID,
	)
	return err
}

// ListDue returns up to `limit` ids of users due at the given UTC hour,
// ascending, starting after afterID. Callers page with the last id of the
// previous batch so a large fan-out never loads every recipient at once.
func (r *SQLiteRepo) ListDue(ctx context.Context, utcHour int, afterID int64, limit int) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id FROM notify_hours
		WHERE hour = ? AND user_id > ?
		ORDER BY user_id
		LIMIT ?`,
		utcHour, afterID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// isConstraintViolation reports whether err is a SQLite constraint failure
// (unique, primary key, check).
func isConstraintViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}
	return false
}
