package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Validation errors are user-correctable: each one names what to fix, the
// whole submission is aborted, and the session window survives untouched so
// the user can retry.

// FormatError means a line did not split into an hour token and an activity
// name.
type FormatError struct {
	Line string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("wrong format in %q: write lines as \"<hour> <activity>\" or \"<from>-<to> <activity>\"", e.Line)
}

// UnknownActivityError names an activity that is not one of the defined
// types.
type UnknownActivityError struct {
	Name string
}

func (e *UnknownActivityError) Error() string {
	return fmt.Sprintf("the activity %q does not exist, available activities: %s", e.Name, ActivityNamesList())
}

// InvalidHourError names an hour token outside 0..23 or a malformed range.
type InvalidHourError struct {
	Token string
}

func (e *InvalidHourError) Error() string {
	return fmt.Sprintf("invalid hour %q: hours are 0..23 and a range needs two different bounds", e.Token)
}

// HourNotOpenError names an hour the user tried to fill that is not (or no
// longer) in the open window.
type HourNotOpenError struct {
	Hour int
}

func (e *HourNotOpenError) Error() string {
	return fmt.Sprintf("you don't need to set activity for hour %d", e.Hour)
}

// ErrIncompleteSubmission is returned when lines were all valid but some
// open hours are still unfilled: a submission covers the whole window or
// nothing.
var ErrIncompleteSubmission = errors.New("activity must be set for every open hour")

// Entry is one accepted (activity, UTC hour) pair ready for storage.
type Entry struct {
	Type ActivityType
	Time time.Time
}

// ParseSubmission validates free text, one "<hour-token> <activity>" line
// per entry, against the open window. Hour tokens are a single hour or an
// A-B range, possibly crossing midnight (A > B), in the user's local frame.
// On success it returns the accepted entries and the consumed (empty)
// window; on any error it returns the error alone and win is left exactly
// as it was — all or nothing.
func ParseSubmission(text string, win *OpenWindow) ([]Entry, *OpenWindow, error) {
	remaining := win.clone()
	var entries []Entry

	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, nil, &FormatError{Line: line}
		}
		hourToken, name := fields[0], fields[1]

		activity, ok := ParseActivityType(name)
		if !ok {
			return nil, nil, &UnknownActivityError{Name: name}
		}

		hours, err := expandHourToken(hourToken)
		if err != nil {
			return nil, nil, err
		}

		for _, hour := range hours {
			if !remaining.consume(hour) {
				return nil, nil, &HourNotOpenError{Hour: hour}
			}
			entries = append(entries, Entry{
				Type: activity,
				Time: ProjectLocalHour(hour, remaining.ref, remaining.tzDelta),
			})
		}
	}

	if !remaining.Empty() {
		return nil, nil, ErrIncompleteSubmission
	}
	return entries, remaining, nil
}

// expandHourToken turns "7" into [7] and "22-3" into [22 23 0 1 2 3].
func expandHourToken(token string) ([]int, error) {
	if from, to, isRange := splitRange(token); isRange {
		fromH, err1 := parseHour(from)
		toH, err2 := parseHour(to)
		if err1 != nil || err2 != nil || fromH == toH {
			return nil, &InvalidHourError{Token: token}
		}
		return HourRangeInclusive(fromH, toH), nil
	}

	hour, err := parseHour(token)
	if err != nil {
		return nil, &InvalidHourError{Token: token}
	}
	return []int{hour}, nil
}

// splitRange recognizes the A-B form. A lone "-" or more than one dash is
// not a range; parseHour will reject it with the full token in the message.
func splitRange(token string) (from, to string, ok bool) {
	if strings.Count(token, "-") != 1 {
		return "", "", false
	}
	parts := strings.SplitN(token, "-", 2)
	if parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func parseHour(s string) (int, error) {
	hour, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if hour < 0 || hour >= hoursPerDay {
		return 0, fmt.Errorf("hour %d out of range", hour)
	}
	return hour, nil
}
