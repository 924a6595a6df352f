package domain

import "time"

// ProjectLocalHour maps a user-local hour from an open window onto the UTC
// instant of that hour on the correct calendar day, at hour granularity.
//
// The reference instant shifted by tzDelta gives the user's current local
// hour; the ring gap from localHour back to that local "now" is exactly how
// many whole hours ago the requested hour started, regardless of whether it
// belongs to today's or yesterday's UTC date. Subtracting the gap from the
// truncated reference therefore lands on the right side of a UTC midnight
// without any date case analysis.
func ProjectLocalHour(localHour int, refUTC time.Time, tzDelta int) time.Time {
	ref := refUTC.UTC().Truncate(time.Hour)
	localNow := NormalizeHour(ref.Hour() + tzDelta)
	gap := Gap(localHour, localNow)
	return ref.Add(-time.Duration(gap) * time.Hour)
}

// LocalHourOf is the inverse of ProjectLocalHour: the local wall-clock hour
// of a UTC instant under the given offset.
func LocalHourOf(utc time.Time, tzDelta int) int {
	return NormalizeHour(utc.UTC().Hour() + tzDelta)
}
