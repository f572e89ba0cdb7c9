package domain

import (
	"reflect"
	"testing"
	"time"
)

func booking(startHour, startMin, endHour, endMin int) Booking {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	return Booking{
		StartTime: day.Add(time.Duration(startHour)*time.Hour + time.Duration(startMin)*time.Minute),
		EndTime:   day.Add(time.Duration(endHour)*time.Hour + time.Duration(endMin)*time.Minute),
	}
}

func TestOccupiedSlots_SingleBooking(t *testing.T) {
	got := OccupiedSlots([]Booking{booking(9, 0, 10, 0)}, 30*time.Minute, time.UTC)
	want := []string{"09:00", "09:30"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("slots = %v, want %v", got, want)
	}
}

func TestOccupiedSlots_PartialSlotStillOccupied(t *testing.T) {
	// A booking ending mid-slot still occupies the slot it started in.
	got := OccupiedSlots([]Booking{booking(9, 0, 9, 45)}, 30*time.Minute, time.UTC)
	want := []string{"09:00", "09:30"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("slots = %v, want %v", got, want)
	}
}

func TestOccupiedSlots_ExcludesSlotStartingAtEnd(t *testing.T) {
	got := OccupiedSlots([]Booking{booking(9, 0, 9, 30)}, 30*time.Minute, time.UTC)
	want := []string{"09:00"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("slots = %v, want %v", got, want)
	}
}

func TestOccupiedSlots_DeduplicatesAndSorts(t *testing.T) {
	got := OccupiedSlots([]Booking{
		booking(14, 0, 15, 0),
		booking(9, 30, 10, 30),
		booking(14, 30, 15, 30),
	}, 30*time.Minute, time.UTC)
	want := []string{"09:30", "10:00", "14:00", "14:30", "15:00"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("slots = %v, want %v", got, want)
	}
}

func TestOccupiedSlots_RendersInLocation(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Bangkok")
	if err != nil {
		t.Fatalf("LoadLocation error: %v", err)
	}

	// 02:00 UTC is 09:00 in Bangkok (+07:00).
	b := Booking{
		StartTime: time.Date(2026, 3, 2, 2, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 3, 2, 3, 0, 0, 0, time.UTC),
	}
	got := OccupiedSlots([]Booking{b}, 30*time.Minute, loc)
	want := []string{"09:00", "09:30"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("slots = %v, want %v", got, want)
	}
}

func TestOccupiedSlots_Empty(t *testing.T) {
	got := OccupiedSlots(nil, 30*time.Minute, time.UTC)
	if len(got) != 0 {
		t.Fatalf("slots = %v, want empty", got)
	}
}

func TestDayBounds(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Bangkok")
	if err != nil {
		t.Fatalf("LoadLocation error: %v", err)
	}

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, loc)
	start, end := DayBounds(day, loc)

	if !start.Equal(time.Date(2026, 3, 2, 0, 0, 0, 0, loc)) {
		t.Fatalf("start = %v", start)
	}
	if !end.Equal(time.Date(2026, 3, 2, 23, 59, 59, 999000000, loc)) {
		t.Fatalf("end = %v", end)
	}
}

func TestDayBounds_DaylightSavingTransitions(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("LoadLocation error: %v", err)
	}

	// A 23-hour spring-forward day and a 25-hour fall-back day both end at
	// the same wall-clock time; neither leaks into the neighboring day.
	cases := []struct {
		name             string
		year, month, day int
	}{
		{"spring forward", 2026, 3, 8},
		{"fall back", 2026, 11, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			day := time.Date(tc.year, time.Month(tc.month), tc.day, 0, 0, 0, 0, loc)
			start, end := DayBounds(day, loc)

			if !start.Equal(time.Date(tc.year, time.Month(tc.month), tc.day, 0, 0, 0, 0, loc)) {
				t.Fatalf("start = %v", start)
			}
			want := time.Date(tc.year, time.Month(tc.month), tc.day, 23, 59, 59, 999000000, loc)
			if !end.Equal(want) {
				t.Fatalf("end = %v, want %v", end, want)
			}
			if end.Day() != tc.day {
				t.Fatalf("end fell on day %d, want %d", end.Day(), tc.day)
			}
		})
	}
}
