package domain

import (
	"errors"
	"testing"
	"time"
)

func window(startHour, startMin, endHour, endMin int) TimeWindow {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	return TimeWindow{
		Start: day.Add(time.Duration(startHour)*time.Hour + time.Duration(startMin)*time.Minute),
		End:   day.Add(time.Duration(endHour)*time.Hour + time.Duration(endMin)*time.Minute),
	}
}

func TestTimeWindowValidate(t *testing.T) {
	if err := window(9, 0, 10, 0).Validate(); err != nil {
		t.Fatalf("Validate error: %v", err)
	}

	if err := window(10, 0, 10, 0).Validate(); !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("zero-length err = %v, want %v", err, ErrInvalidWindow)
	}
	if err := window(10, 0, 9, 0).Validate(); !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("inverted err = %v, want %v", err, ErrInvalidWindow)
	}
}

func TestTimeWindowOverlaps(t *testing.T) {
	cases := []struct {
		name string
		a, b TimeWindow
		want bool
	}{
		{"partial overlap", window(10, 0, 11, 0), window(10, 30, 11, 30), true},
		{"contained", window(10, 0, 12, 0), window(10, 30, 11, 0), true},
		{"identical", window(10, 0, 11, 0), window(10, 0, 11, 0), true},
		{"touching end to start", window(10, 0, 11, 0), window(11, 0, 12, 0), false},
		{"touching start to end", window(11, 0, 12, 0), window(10, 0, 11, 0), false},
		{"disjoint", window(8, 0, 9, 0), window(14, 0, 15, 0), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Overlaps(tc.b); got != tc.want {
				t.Fatalf("a.Overlaps(b) = %v, want %v", got, tc.want)
			}
			if got := tc.b.Overlaps(tc.a); got != tc.want {
				t.Fatalf("b.Overlaps(a) = %v, want %v (overlap must be symmetric)", got, tc.want)
			}
		})
	}
}

func TestTimeWindowOverlapsSelf(t *testing.T) {
	w := window(9, 15, 9, 45)
	if !w.Overlaps(w) {
		t.Fatalf("a valid window must overlap itself")
	}
}
