package domain

import (
	"errors"
	"time"
)

var ErrInvalidWindow = errors.New("end time must be after start time")

// TimeWindow is a half-open interval [Start, End). Two windows that only
// touch at a boundary do not overlap.
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

func NewTimeWindow(start, end time.Time) TimeWindow {
	return TimeWindow{Start: start.UTC(), End: end.UTC()}
}

func (w TimeWindow) Validate() error {
	if w.End.Equal(w.Start) || w.End.Before(w.Start) {
		return ErrInvalidWindow
	}
	return nil
}

func (w TimeWindow) Overlaps(o TimeWindow) bool {
	return w.Start.Before(o.End) && o.Start.Before(w.End)
}

func (w TimeWindow) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

func (w TimeWindow) UTC() TimeWindow {
	return TimeWindow{Start: w.Start.UTC(), End: w.End.UTC()}
}
