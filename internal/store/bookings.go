package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"clinicdesk/internal/domain"
)

// BookingScope narrows a listing to the caller's own bookings. The zero
// value means no narrowing (ADMIN). It is derived from the caller identity
// by the transport, never inside the engine.
type BookingScope struct {
	DoctorID  int64
	PatientID int64
}

type BookingRepository interface {
	// FindActiveBookings returns bookings on one resource dimension whose
	// window could overlap the given window, in active statuses only.
	// excludeID omits the booking currently being edited so it cannot
	// conflict with itself; pass uuid.Nil for creates.
	FindActiveBookings(ctx context.Context, kind domain.ResourceKind, resourceID int64, window domain.TimeWindow, excludeID uuid.UUID) ([]domain.Booking, error)

	// ListDayBookings returns active bookings on a resource whose start
	// time falls within [dayStart, dayEnd].
	ListDayBookings(ctx context.Context, kind domain.ResourceKind, resourceID int64, dayStart, dayEnd time.Time) ([]domain.Booking, error)

	GetBooking(ctx context.Context, id uuid.UUID) (domain.Booking, error)
	ListBookings(ctx context.Context, scope BookingScope) ([]domain.Booking, error)
	DeleteBooking(ctx context.Context, id uuid.UUID) error

	ResourceExists(ctx context.Context, kind domain.ResourceKind, resourceID int64) (bool, error)

	// InBookingTransaction serializes conflicting writers by taking
	// advisory locks on the three resource calendars before running fn.
	InBookingTransaction(ctx context.Context, doctorID, patientID, roomID int64, fn func(ctx context.Context, tx BookingTx) error) error
}

// BookingTx is the write surface available inside a locked transaction.
type BookingTx interface {
	FindActiveBookings(ctx context.Context, kind domain.ResourceKind, resourceID int64, window domain.TimeWindow, excludeID uuid.UUID) ([]domain.Booking, error)
	CreateBooking(ctx context.Context, booking domain.Booking) (domain.Booking, error)
	UpdateBookingWindow(ctx context.Context, id uuid.UUID, window domain.TimeWindow) (domain.Booking, error)
	UpdateBookingStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) (domain.Booking, error)
}
