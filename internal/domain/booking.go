package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusPaid      BookingStatus = "paid"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusPostponed BookingStatus = "postponed"
	BookingStatusAbsent    BookingStatus = "absent"
)

// ActiveStatuses are the statuses that still block a time slot. Everything
// else is historical: it stays on record but never participates in conflict
// or availability computation.
var ActiveStatuses = []BookingStatus{BookingStatusPending, BookingStatusConfirmed}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusPaid,
		BookingStatusCancelled, BookingStatusPostponed, BookingStatusAbsent:
		return true
	}
	return false
}

func (s BookingStatus) Active() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

// ResourceKind is one of the three independent dimensions a booking
// reserves. The order of AllResourceKinds is fixed so conflict reports and
// their rendered messages are deterministic.
type ResourceKind string

const (
	ResourceDoctor  ResourceKind = "doctor"
	ResourcePatient ResourceKind = "patient"
	ResourceRoom    ResourceKind = "room"
)

var AllResourceKinds = []ResourceKind{ResourceDoctor, ResourcePatient, ResourceRoom}

func (k ResourceKind) Valid() bool {
	return k == ResourceDoctor || k == ResourcePatient || k == ResourceRoom
}

func (k ResourceKind) String() string {
	switch k {
	case ResourceDoctor:
		return "Doctor"
	case ResourcePatient:
		return "Patient"
	case ResourceRoom:
		return "Room"
	}
	return string(k)
}

type Booking struct {
	bun.BaseModel `bun:"table:bookings"`

	ID        uuid.UUID     `bun:"id,pk,type:uuid"`
	DoctorID  int64         `bun:"doctor_id,notnull"`
	PatientID int64         `bun:"patient_id,notnull"`
	RoomID    int64         `bun:"room_id,notnull"`
	Title     string        `bun:"title,notnull"`
	Notes     string        `bun:"notes"`
	StartTime time.Time     `bun:"start_time,notnull"`
	EndTime   time.Time     `bun:"end_time,notnull"`
	Status    BookingStatus `bun:"status,notnull"`
	CreatedAt time.Time     `bun:"created_at,notnull"`
	UpdatedAt time.Time     `bun:"updated_at,notnull"`
}

func (b *Booking) Window() TimeWindow {
	return TimeWindow{Start: b.StartTime, End: b.EndTime}
}

// ResourceID returns the booking's id on the given dimension, or 0 for an
// unknown kind.
func (b *Booking) ResourceID(kind ResourceKind) int64 {
	switch kind {
	case ResourceDoctor:
		return b.DoctorID
	case ResourcePatient:
		return b.PatientID
	case ResourceRoom:
		return b.RoomID
	}
	return 0
}

func (b *Booking) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if b.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			b.ID = id
		}
		if b.Status == "" {
			b.Status = BookingStatusPending
		}
		if b.CreatedAt.IsZero() {
			b.CreatedAt = now
		}
		if b.UpdatedAt.IsZero() {
			b.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		b.UpdatedAt = now
	}
	return nil
}
