package domain

import (
	"sort"
	"time"
)

const DefaultSlotGranularity = 30 * time.Minute

// OccupiedSlots discretizes the given bookings into slot-start labels
// ("HH:mm", rendered in loc) for calendar rendering. The walk starts at
// each booking's start time and never emits a slot starting at or after
// its end time. Labels are deduplicated and sorted lexicographically,
// which for same-day HH:mm strings is chronological order.
func OccupiedSlots(bookings []Booking, granularity time.Duration, loc *time.Location) []string {
	if granularity <= 0 {
		granularity = DefaultSlotGranularity
	}
	if loc == nil {
		loc = time.UTC
	}

	seen := make(map[string]struct{})
	for _, b := range bookings {
		for t := b.StartTime; t.Before(b.EndTime); t = t.Add(granularity) {
			seen[t.In(loc).Format("15:04")] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for label := range seen {
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}

// DayBounds returns the inclusive bounds of the calendar day containing
// midnight of day in loc: 00:00:00.000 through 23:59:59.999. Both ends are
// built from wall-clock fields, not a 24h offset, so DST-transition days
// keep the same boundary clock times. Availability queries match bookings
// whose start time falls inside these bounds.
func DayBounds(day time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	end := time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 999000000, loc)
	return start, end
}
