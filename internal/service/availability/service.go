package availability

import (
	"context"
	"fmt"
	"strings"
	"time"

	"clinicdesk/internal/domain"
	"clinicdesk/internal/store"
)

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

// BookingStore is the slice of the repository the slot computer reads.
type BookingStore interface {
	ListDayBookings(ctx context.Context, kind domain.ResourceKind, resourceID int64, dayStart, dayEnd time.Time) ([]domain.Booking, error)
	ResourceExists(ctx context.Context, kind domain.ResourceKind, resourceID int64) (bool, error)
}

// Service computes the occupied slots of one resource's calendar day.
// Day boundaries and slot labels use a single configured clinic timezone;
// callers supply the day as seen in that zone.
type Service struct {
	store       BookingStore
	loc         *time.Location
	granularity time.Duration
}

func NewService(store BookingStore, loc *time.Location, granularity time.Duration) *Service {
	if loc == nil {
		loc = time.UTC
	}
	if granularity <= 0 {
		granularity = domain.DefaultSlotGranularity
	}
	return &Service{store: store, loc: loc, granularity: granularity}
}

// OccupiedSlots returns the ordered, deduplicated "HH:mm" slot-start labels
// occupied on the given day ("2006-01-02") for one resource. Each kind is
// an independent answer: a shared calendar view asks once per kind.
func (s *Service) OccupiedSlots(ctx context.Context, kind domain.ResourceKind, resourceID int64, day string) ([]string, error) {
	if !kind.Valid() {
		return nil, validationError("kind must be one of doctor, patient, room")
	}
	if resourceID == 0 {
		return nil, validationError("resource_id is required")
	}
	if strings.TrimSpace(day) == "" {
		return nil, validationError("day is required")
	}
	d, err := time.ParseInLocation("2006-01-02", day, s.loc)
	if err != nil {
		return nil, validationError("invalid day, want YYYY-MM-DD")
	}

	exists, err := s.store.ResourceExists(ctx, kind, resourceID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%s %d: %w", strings.ToLower(kind.String()), resourceID, store.ErrNotFound)
	}

	dayStart, dayEnd := domain.DayBounds(d, s.loc)
	rows, err := s.store.ListDayBookings(ctx, kind, resourceID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	return domain.OccupiedSlots(rows, s.granularity, s.loc), nil
}
