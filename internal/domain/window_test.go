package domain

import (
	"reflect"
	"testing"
	"time"
)

func utc(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func TestOpenUTCHours(t *testing.T) {
	cases := []struct {
		name      string
		last      *time.Time
		now       time.Time
		want      []int
		firstTime bool
	}{
		{
			name:      "first time user gets elapsed today",
			last:      nil,
			now:       utc(2024, time.January, 1, 5),
			want:      []int{0, 1, 2, 3, 4},
			firstTime: true,
		},
		{
			name: "same day gap",
			last: timePtr(utc(2024, time.January, 1, 9)),
			now:  utc(2024, time.January, 1, 13),
			want: []int{10, 11, 12},
		},
		{
			name: "same day no gap",
			last: timePtr(utc(2024, time.January, 1, 12)),
			now:  utc(2024, time.January, 1, 13),
			want: []int{},
		},
		{
			name: "previous day wraps across midnight",
			last: timePtr(utc(2024, time.January, 1, 22)),
			now:  utc(2024, time.January, 2, 2),
			want: []int{23, 0, 1},
		},
		{
			name: "previous day at 23 leaves only today",
			last: timePtr(utc(2024, time.January, 1, 23)),
			now:  utc(2024, time.January, 2, 2),
			want: []int{0, 1},
		},
		{
			name: "gap over one day resets to today",
			last: timePtr(utc(2023, time.December, 30, 10)),
			now:  utc(2024, time.January, 2, 5),
			want: []int{0, 1, 2, 3, 4},
		},
		{
			name: "midnight now with yesterday's last hour filled",
			last: timePtr(utc(2024, time.January, 1, 23)),
			now:  utc(2024, time.January, 2, 0),
			want: []int{},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, firstTime := OpenUTCHours(c.last, c.now)
			if !reflect.DeepEqual(got, c.want) {
				t.Fatalf("hours = %v, want %v", got, c.want)
			}
			if firstTime != c.firstTime {
				t.Fatalf("firstTime = %v, want %v", firstTime, c.firstTime)
			}
		})
	}
}

func TestOpenUTCHoursIsPure(t *testing.T) {
	last := timePtr(utc(2024, time.March, 10, 8))
	now := utc(2024, time.March, 10, 15)

	first, _ := OpenUTCHours(last, now)
	second, _ := OpenUTCHours(last, now)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("two identical calls disagree: %v vs %v", first, second)
	}
}

func TestLocalizeHours(t *testing.T) {
	cases := []struct {
		hours   []int
		tzDelta int
		want    []int
	}{
		{[]int{0, 1, 2}, 3, []int{3, 4, 5}},
		{[]int{22, 23, 0}, 3, []int{1, 2, 3}},
		{[]int{0, 1}, -5, []int{19, 20}},
	}
	for _, c := range cases {
		if got := LocalizeHours(c.hours, c.tzDelta); !reflect.DeepEqual(got, c.want) {
			t.Errorf("LocalizeHours(%v, %d) = %v, want %v", c.hours, c.tzDelta, got, c.want)
		}
	}
}

func TestOpenWindowConsume(t *testing.T) {
	win := NewOpenWindow([]int{10, 11, 12}, utc(2024, time.January, 1, 13), 0)

	if !win.consume(11) {
		t.Fatal("hour 11 should be open")
	}
	if win.consume(11) {
		t.Fatal("hour 11 was already consumed")
	}
	if got := win.Hours(); !reflect.DeepEqual(got, []int{10, 12}) {
		t.Fatalf("remaining = %v, want [10 12]", got)
	}
}

func timePtr(t time.Time) *time.Time { return &t }
