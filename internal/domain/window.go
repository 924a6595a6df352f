package domain

import (
	"fmt"
	"time"
)

// OpenUTCHours computes which UTC hours the user still has to fill with an
// activity, given the most recent recorded activity (nil for a first-time
// user) and the current instant. Hours are returned in fill order. The
// second result reports the first-time-user case.
//
// Policy:
//   - first-time users fill every hour of today's UTC day before now's hour
//     (they cannot retroactively fill time from before they joined a day);
//   - a last activity on today's UTC date opens (last.hour+1 .. now.hour-1);
//   - a last activity on yesterday's UTC date opens the whole gap across
//     midnight, (last.hour+1 .. 23) then (0 .. now.hour-1);
//   - anything older is written off and the window resets to today from
//     hour 0, so a long absence never piles up an unbounded backlog.
//
// Pure function: identical inputs always yield the identical sequence.
func OpenUTCHours(lastActivity *time.Time, now time.Time) ([]int, bool) {
	now = now.UTC()
	end := now.Hour() // exclusive: now's own hour is still in progress

	if lastActivity == nil {
		return hoursAscending(0, end), true
	}

	last := lastActivity.UTC()
	switch calendarDaysBetween(last, now) {
	case 0:
		return hoursAscending(last.Hour()+1, end), false
	case 1:
		hours := hoursAscending(last.Hour()+1, hoursPerDay)
		return append(hours, hoursAscending(0, end)...), false
	default:
		return hoursAscending(0, end), false
	}
}

// LocalizeHours shifts UTC hours into the user's local frame so prompts show
// the clock the user actually lives by.
func LocalizeHours(utcHours []int, tzDelta int) []int {
	local := make([]int, len(utcHours))
	for i, h := range utcHours {
		local[i] = NormalizeHour(h + tzDelta)
	}
	return local
}

// hoursAscending returns [from, to) clipped to an empty slice when the
// bounds cross. No ring wraparound here; midnight crossing is the caller's
// two-segment case.
func hoursAscending(from, to int) []int {
	if from >= to {
		return []int{}
	}
	hours := make([]int, 0, to-from)
	for h := from; h < to; h++ {
		hours = append(hours, h)
	}
	return hours
}

// calendarDaysBetween counts whole UTC calendar dates from a to b. A future
// `a` reports a large positive count so callers fall into the reset branch
// instead of producing a negative window.
func calendarDaysBetween(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	days := int(bd.Sub(ad) / (hoursPerDay * time.Hour))
	if days < 0 {
		return hoursPerDay // arbitrary >1
	}
	return days
}

// OpenWindow is the per-session set of local hours still needing an
// activity, pinned to the UTC instant it was computed from. It shrinks as
// submissions consume hours and is discarded at session end. Not safe for
// concurrent use; each window belongs to exactly one session.
type OpenWindow struct {
	hours   []int // local hours, in fill order
	ref     time.Time
	tzDelta int
}

// NewOpenWindow builds a session window from the calculator's UTC hours.
// A window outside 0..24 entries or with out-of-ring hours means the
// calculator is broken, which is a bug, not an input problem.
func NewOpenWindow(utcHours []int, ref time.Time, tzDelta int) *OpenWindow {
	if len(utcHours) > hoursPerDay {
		panic(fmt.Sprintf("open window has %d hours", len(utcHours)))
	}
	for _, h := range utcHours {
		if h < 0 || h >= hoursPerDay {
			panic(fmt.Sprintf("open window hour %d out of range", h))
		}
	}
	return &OpenWindow{
		hours:   LocalizeHours(utcHours, tzDelta),
		ref:     ref.UTC().Truncate(time.Hour),
		tzDelta: tzDelta,
	}
}

// Hours returns a copy of the remaining local hours in fill order.
func (w *OpenWindow) Hours() []int {
	out := make([]int, len(w.hours))
	copy(out, w.hours)
	return out
}

// Len reports how many hours remain unfilled.
func (w *OpenWindow) Len() int { return len(w.hours) }

// Empty reports whether every hour has been consumed.
func (w *OpenWindow) Empty() bool { return len(w.hours) == 0 }

// Ref returns the UTC instant the window was computed from.
func (w *OpenWindow) Ref() time.Time { return w.ref }

// TzDelta returns the timezone offset the window was localized with.
func (w *OpenWindow) TzDelta() int { return w.tzDelta }

// clone copies the window so a parse can consume hours without touching the
// session's window until the whole submission is accepted.
func (w *OpenWindow) clone() *OpenWindow {
	return &OpenWindow{hours: w.Hours(), ref: w.ref, tzDelta: w.tzDelta}
}

// consume removes hour from the window, reporting false when the hour is not
// (or no longer) open.
func (w *OpenWindow) consume(hour int) bool {
	for i, h := range w.hours {
		if h == hour {
			w.hours = append(w.hours[:i], w.hours[i+1:]...)
			return true
		}
	}
	return false
}
