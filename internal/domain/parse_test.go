package domain

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

// wrapWindow is the {23,0,1,2,3} fixture: user last logged 22:00 yesterday,
// it is now 04:00 UTC, tz offset zero.
func wrapWindow() *OpenWindow {
	return NewOpenWindow([]int{23, 0, 1, 2, 3}, utc(2024, time.January, 2, 4), 0)
}

func TestParseSubmissionWrappedRange(t *testing.T) {
	win := wrapWindow()

	entries, consumed, err := ParseSubmission("23-3 sleep", win)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(entries) != 5 {
		t.Fatalf("got %d entries, want 5", len(entries))
	}
	wantTimes := []time.Time{
		utc(2024, time.January, 1, 23),
		utc(2024, time.January, 2, 0),
		utc(2024, time.January, 2, 1),
		utc(2024, time.January, 2, 2),
		utc(2024, time.January, 2, 3),
	}
	for i, e := range entries {
		if e.Type != ActivitySleep {
			t.Errorf("entry %d type = %v, want sleep", i, e.Type)
		}
		if !e.Time.Equal(wantTimes[i]) {
			t.Errorf("entry %d time = %v, want %v", i, e.Time, wantTimes[i])
		}
	}
	if !consumed.Empty() {
		t.Fatalf("window not emptied: %v", consumed.Hours())
	}

	// A second submission against the consumed window finds hour 1 closed.
	_, _, err = ParseSubmission("1 work", consumed)
	var notOpen *HourNotOpenError
	if !errors.As(err, &notOpen) || notOpen.Hour != 1 {
		t.Fatalf("err = %v, want HourNotOpenError for hour 1", err)
	}
}

func TestParseSubmissionMultiLine(t *testing.T) {
	win := NewOpenWindow([]int{9, 10, 11, 12}, utc(2024, time.January, 1, 13), 0)

	entries, consumed, err := ParseSubmission("9-10 work\n11 studying\n12 reading", win)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	wantTypes := []ActivityType{ActivityWork, ActivityWork, ActivityStudying, ActivityReading}
	for i, e := range entries {
		if e.Type != wantTypes[i] {
			t.Errorf("entry %d type = %v, want %v", i, e.Type, wantTypes[i])
		}
	}
	if !consumed.Empty() {
		t.Fatalf("window not emptied: %v", consumed.Hours())
	}
}

func TestParseSubmissionCaseInsensitiveNames(t *testing.T) {
	win := NewOpenWindow([]int{7}, utc(2024, time.January, 1, 8), 0)
	entries, _, err := ParseSubmission("7 SLEEP", win)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if entries[0].Type != ActivitySleep {
		t.Fatalf("type = %v, want sleep", entries[0].Type)
	}
}

func TestParseSubmissionErrors(t *testing.T) {
	newWin := func() *OpenWindow {
		return NewOpenWindow([]int{5, 6, 7}, utc(2024, time.January, 1, 8), 0)
	}

	cases := []struct {
		name  string
		text  string
		check func(t *testing.T, err error)
	}{
		{
			name: "unknown activity aborts even after valid lines",
			text: "5 work\n6 gaming",
			check: func(t *testing.T, err error) {
				var unknown *UnknownActivityError
				if !errors.As(err, &unknown) || unknown.Name != "gaming" {
					t.Fatalf("err = %v, want UnknownActivityError for gaming", err)
				}
			},
		},
		{
			name: "missing activity name",
			text: "5",
			check: func(t *testing.T, err error) {
				var format *FormatError
				if !errors.As(err, &format) {
					t.Fatalf("err = %v, want FormatError", err)
				}
			},
		},
		{
			name: "too many tokens",
			text: "5 work work",
			check: func(t *testing.T, err error) {
				var format *FormatError
				if !errors.As(err, &format) {
					t.Fatalf("err = %v, want FormatError", err)
				}
			},
		},
		{
			name: "hour above 23",
			text: "25 work",
			check: func(t *testing.T, err error) {
				var invalid *InvalidHourError
				if !errors.As(err, &invalid) || invalid.Token != "25" {
					t.Fatalf("err = %v, want InvalidHourError for 25", err)
				}
			},
		},
		{
			name: "zero length range",
			text: "5-5 work",
			check: func(t *testing.T, err error) {
				var invalid *InvalidHourError
				if !errors.As(err, &invalid) {
					t.Fatalf("err = %v, want InvalidHourError", err)
				}
			},
		},
		{
			name: "range bound above 23",
			text: "5-24 work",
			check: func(t *testing.T, err error) {
				var invalid *InvalidHourError
				if !errors.As(err, &invalid) {
					t.Fatalf("err = %v, want InvalidHourError", err)
				}
			},
		},
		{
			name: "hour outside window",
			text: "9 work",
			check: func(t *testing.T, err error) {
				var notOpen *HourNotOpenError
				if !errors.As(err, &notOpen) || notOpen.Hour != 9 {
					t.Fatalf("err = %v, want HourNotOpenError for 9", err)
				}
			},
		},
		{
			name: "unfilled hours left",
			text: "5 work\n6 sleep",
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrIncompleteSubmission) {
					t.Fatalf("err = %v, want ErrIncompleteSubmission", err)
				}
			},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			win := newWin()
			entries, consumed, err := ParseSubmission(c.text, win)
			if err == nil {
				t.Fatal("expected error")
			}
			c.check(t, err)
			if entries != nil || consumed != nil {
				t.Fatal("failed parse must produce no entries")
			}
			// zero side effects: caller's window survives for a retry
			if got := win.Hours(); !reflect.DeepEqual(got, []int{5, 6, 7}) {
				t.Fatalf("window mutated by failed parse: %v", got)
			}
		})
	}
}

func TestSessionSubmit(t *testing.T) {
	win := NewOpenWindow([]int{10, 11}, utc(2024, time.January, 1, 12), 0)
	s := NewSession(42, win, false)

	if s.State != StateAwaitingInput {
		t.Fatalf("state = %v, want awaiting_input", s.State)
	}

	// Validation failure keeps the window and returns to awaiting input.
	err := s.Submit("10 gaming", func([]Entry) error {
		t.Fatal("commit must not run on a failed parse")
		return nil
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if s.State != StateAwaitingInput || s.Window.Len() != 2 {
		t.Fatalf("failed submit changed session: state=%v window=%v", s.State, s.Window.Hours())
	}

	// Commit failure (e.g. a storage conflict) also leaves the window alone.
	conflict := errors.New("hour already recorded")
	err = s.Submit("10-11 work", func([]Entry) error { return conflict })
	if !errors.Is(err, conflict) {
		t.Fatalf("err = %v, want commit error", err)
	}
	if s.State != StateAwaitingInput || s.Window.Len() != 2 {
		t.Fatalf("failed commit changed session: state=%v window=%v", s.State, s.Window.Hours())
	}

	var committed []Entry
	if err := s.Submit("10-11 work", func(e []Entry) error { committed = e; return nil }); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if s.State != StateCommitted || !s.Window.Empty() {
		t.Fatalf("state=%v window=%v after commit", s.State, s.Window.Hours())
	}
	if len(committed) != 2 {
		t.Fatalf("committed %d entries, want 2", len(committed))
	}
}
