package domain

import (
	"fmt"
	"strings"
	"time"
)

// ActivityType is one of the fixed kinds of activity a user can log for an hour.
type ActivityType int

const (
	ActivitySleep ActivityType = iota + 1
	ActivityWork
	ActivityStudying
	ActivityFamily
	ActivityFriends
	ActivityPassive // something to relax
	ActivityExercise
	ActivityReading
)

var activityNames = map[ActivityType]string{
	ActivitySleep:    "sleep",
	ActivityWork:     "work",
	ActivityStudying: "studying",
	ActivityFamily:   "family",
	ActivityFriends:  "friends",
	ActivityPassive:  "passive",
	ActivityExercise: "exercise",
	ActivityReading:  "reading",
}

// ActivityTypes lists every type in declaration order.
func ActivityTypes() []ActivityType {
	return []ActivityType{
		ActivitySleep, ActivityWork, ActivityStudying, ActivityFamily,
		ActivityFriends, ActivityPassive, ActivityExercise, ActivityReading,
	}
}

func (t ActivityType) String() string {
	if s, ok := activityNames[t]; ok {
		return s
	}
	return fmt.Sprintf("ActivityType(%d)", int(t))
}

// Valid reports whether t is one of the defined activity types.
func (t ActivityType) Valid() bool {
	_, ok := activityNames[t]
	return ok
}

// ParseActivityType resolves a user-supplied name (case-insensitive) to an
// ActivityType.
func ParseActivityType(name string) (ActivityType, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for t, s := range activityNames {
		if s == name {
			return t, true
		}
	}
	return 0, false
}

// ActivityNamesList returns the valid names joined for user-facing messages,
// in declaration order.
func ActivityNamesList() string {
	names := make([]string, 0, len(activityNames))
	for _, t := range ActivityTypes() {
		names = append(names, t.String())
	}
	return strings.Join(names, ", ")
}

// Activity is a single logged hour. Time is always UTC, truncated to the
// hour. Records are append-only; a duplicate (UserID, Time) pair is a
// conflict, never an overwrite.
type Activity struct {
	UserID int64
	Type   ActivityType
	Time   time.Time
}

// ActivityCount is the all-time total of logged hours for one activity type.
type ActivityCount struct {
	Type  ActivityType
	Hours int
}
