package domain

// Hour arithmetic over the cyclic domain {0..23}: 23+1 wraps to 0.

const hoursPerDay = 24

// NormalizeHour reduces h modulo 24 into [0, 23], non-negative for negative
// inputs too.
func NormalizeHour(h int) int {
	h %= hoursPerDay
	if h < 0 {
		h += hoursPerDay
	}
	return h
}

// HourRangeInclusive expands [from, to] into the hour sequence walking
// forward on the ring. from > to crosses midnight: 22..2 gives
// [22 23 0 1 2]. from == to is rejected: a single hour must be written as
// a single hour, not a zero-length range.
func HourRangeInclusive(from, to int) []int {
	if from == to {
		return nil
	}
	from, to = NormalizeHour(from), NormalizeHour(to)
	n := Gap(from, to) + 1
	hours := make([]int, 0, n)
	for h := from; ; h = NormalizeHour(h + 1) {
		hours = append(hours, h)
		if h == to {
			break
		}
	}
	return hours
}

// Gap counts the hours walked forward on the ring from `from` until
// reaching `target`. Gap(h, h) is 0; the walk stops at the first hit, so
// results stay in [0, 23]. A "same hour, previous day" distance of 24 is a
// calendar question, decided by callers from dates, not from the ring.
func Gap(from, target int) int {
	from, target = NormalizeHour(from), NormalizeHour(target)
	return NormalizeHour(target - from)
}
