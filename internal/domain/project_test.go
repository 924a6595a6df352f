package domain

import (
	"testing"
	"time"
)

func TestProjectLocalHourRoundTrip(t *testing.T) {
	ref := utc(2024, time.June, 15, 14)
	for tzDelta := -12; tzDelta <= 12; tzDelta++ {
		for localHour := 0; localHour < 24; localHour++ {
			projected := ProjectLocalHour(localHour, ref, tzDelta)
			if got := LocalHourOf(projected, tzDelta); got != localHour {
				t.Fatalf("tz=%d hour=%d: projected %v maps back to %d", tzDelta, localHour, projected, got)
			}
			if projected.After(ref) {
				t.Fatalf("tz=%d hour=%d: projected %v is after reference %v", tzDelta, localHour, projected, ref)
			}
		}
	}
}

func TestProjectLocalHourAcrossUTCMidnight(t *testing.T) {
	// 01:00 UTC, user at UTC+3 → local now is 04:00. Local 23 was five
	// hours ago, on the previous UTC date.
	ref := utc(2024, time.January, 2, 1)
	got := ProjectLocalHour(23, ref, 3)
	want := utc(2024, time.January, 1, 20)
	if !got.Equal(want) {
		t.Fatalf("ProjectLocalHour(23) = %v, want %v", got, want)
	}
}

func TestProjectLocalHourSameHour(t *testing.T) {
	ref := utc(2024, time.January, 2, 9)
	// Local hour equal to local now projects to the reference hour itself.
	got := ProjectLocalHour(NormalizeHour(9-4), ref, -4)
	if !got.Equal(ref) {
		t.Fatalf("got %v, want %v", got, ref)
	}
}

func TestProjectLocalHourTruncates(t *testing.T) {
	ref := time.Date(2024, time.January, 2, 9, 42, 17, 500, time.UTC)
	got := ProjectLocalHour(8, ref, 0)
	want := utc(2024, time.January, 2, 8)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestWindowProjectionReproducesLocalHours(t *testing.T) {
	// Projecting a full wrapped window and re-deriving local hours must
	// reproduce the window exactly, including across UTC midnight.
	ref := utc(2024, time.January, 2, 2)
	const tzDelta = 5
	utcHours, _ := OpenUTCHours(timePtr(utc(2024, time.January, 1, 5)), ref)

	for i, localHour := range LocalizeHours(utcHours, tzDelta) {
		projected := ProjectLocalHour(localHour, ref, tzDelta)
		if got := LocalHourOf(projected, tzDelta); got != localHour {
			t.Fatalf("hour[%d]=%d came back as %d", i, localHour, got)
		}
		if got := projected.UTC().Hour(); got != utcHours[i] {
			t.Fatalf("hour[%d]: UTC hour %d, want %d", i, got, utcHours[i])
		}
	}
}
