package availability

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"clinicdesk/internal/domain"
	"clinicdesk/internal/store"
)

type fakeStore struct {
	listDayFn func(ctx context.Context, kind domain.ResourceKind, resourceID int64, dayStart, dayEnd time.Time) ([]domain.Booking, error)
	existsFn  func(ctx context.Context, kind domain.ResourceKind, resourceID int64) (bool, error)
}

func (f *fakeStore) ListDayBookings(ctx context.Context, kind domain.ResourceKind, resourceID int64, dayStart, dayEnd time.Time) ([]domain.Booking, error) {
	if f.listDayFn == nil {
		panic("ListDayBookings not configured")
	}
	return f.listDayFn(ctx, kind, resourceID, dayStart, dayEnd)
}

func (f *fakeStore) ResourceExists(ctx context.Context, kind domain.ResourceKind, resourceID int64) (bool, error) {
	if f.existsFn == nil {
		return true, nil
	}
	return f.existsFn(ctx, kind, resourceID)
}

func TestOccupiedSlots_SingleBooking(t *testing.T) {
	st := &fakeStore{
		listDayFn: func(ctx context.Context, kind domain.ResourceKind, resourceID int64, dayStart, dayEnd time.Time) ([]domain.Booking, error) {
			if kind != domain.ResourceDoctor || resourceID != 1 {
				t.Fatalf("queried %s/%d, want doctor/1", kind, resourceID)
			}
			return []domain.Booking{{
				DoctorID:  1,
				Status:    domain.BookingStatusConfirmed,
				StartTime: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
				EndTime:   time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
			}}, nil
		},
	}
	svc := NewService(st, time.UTC, 30*time.Minute)

	got, err := svc.OccupiedSlots(context.Background(), domain.ResourceDoctor, 1, "2026-03-02")
	if err != nil {
		t.Fatalf("OccupiedSlots error: %v", err)
	}
	want := []string{"09:00", "09:30"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("slots = %v, want %v", got, want)
	}
}

func TestOccupiedSlots_DayBoundsInClinicTimezone(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Bangkok")
	if err != nil {
		t.Fatalf("LoadLocation error: %v", err)
	}

	var gotStart, gotEnd time.Time
	st := &fakeStore{
		listDayFn: func(ctx context.Context, kind domain.ResourceKind, resourceID int64, dayStart, dayEnd time.Time) ([]domain.Booking, error) {
			gotStart, gotEnd = dayStart, dayEnd
			return nil, nil
		},
	}
	svc := NewService(st, loc, 30*time.Minute)

	if _, err := svc.OccupiedSlots(context.Background(), domain.ResourceRoom, 4, "2026-03-02"); err != nil {
		t.Fatalf("OccupiedSlots error: %v", err)
	}

	wantStart := time.Date(2026, 3, 2, 0, 0, 0, 0, loc)
	wantEnd := time.Date(2026, 3, 2, 23, 59, 59, 999000000, loc)
	if !gotStart.Equal(wantStart) {
		t.Fatalf("dayStart = %v, want %v", gotStart, wantStart)
	}
	if !gotEnd.Equal(wantEnd) {
		t.Fatalf("dayEnd = %v, want %v", gotEnd, wantEnd)
	}
}

func TestOccupiedSlots_MissingParameters(t *testing.T) {
	svc := NewService(&fakeStore{}, time.UTC, 30*time.Minute)

	cases := []struct {
		name string
		kind domain.ResourceKind
		id   int64
		day  string
	}{
		{"bad kind", "nurse", 1, "2026-03-02"},
		{"missing id", domain.ResourceDoctor, 0, "2026-03-02"},
		{"missing day", domain.ResourceDoctor, 1, ""},
		{"malformed day", domain.ResourceDoctor, 1, "02/03/2026"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.OccupiedSlots(context.Background(), tc.kind, tc.id, tc.day)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("error type = %T (%v), want *ValidationError", err, err)
			}
		})
	}
}

func TestOccupiedSlots_ResourceNotFound(t *testing.T) {
	st := &fakeStore{
		existsFn: func(ctx context.Context, kind domain.ResourceKind, resourceID int64) (bool, error) {
			return false, nil
		},
	}
	svc := NewService(st, time.UTC, 30*time.Minute)

	_, err := svc.OccupiedSlots(context.Background(), domain.ResourceDoctor, 42, "2026-03-02")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want %v", err, store.ErrNotFound)
	}
}

func TestOccupiedSlots_EmptyDay(t *testing.T) {
	st := &fakeStore{
		listDayFn: func(ctx context.Context, kind domain.ResourceKind, resourceID int64, dayStart, dayEnd time.Time) ([]domain.Booking, error) {
			return nil, nil
		},
	}
	svc := NewService(st, time.UTC, 30*time.Minute)

	got, err := svc.OccupiedSlots(context.Background(), domain.ResourcePatient, 9, "2026-03-02")
	if err != nil {
		t.Fatalf("OccupiedSlots error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("slots = %v, want empty", got)
	}
}
