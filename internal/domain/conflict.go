package domain

import (
	"strings"

	"github.com/google/uuid"
)

// ResourceConflict records the bookings that overlap the requested window
// on a single dimension.
type ResourceConflict struct {
	Kind       ResourceKind `json:"kind"`
	BookingIDs []uuid.UUID  `json:"booking_ids"`
}

// ConflictReport is the outcome of a conflict check. Conflicts are ordered
// Doctor, Patient, Room regardless of input, so the same conflict set
// always renders the same message.
type ConflictReport struct {
	Conflicts []ResourceConflict `json:"conflicts"`
}

func (r ConflictReport) HasConflict() bool {
	return len(r.Conflicts) > 0
}

func (r ConflictReport) Kinds() []ResourceKind {
	kinds := make([]ResourceKind, 0, len(r.Conflicts))
	for _, c := range r.Conflicts {
		kinds = append(kinds, c.Kind)
	}
	return kinds
}

func (r ConflictReport) Message() string {
	if !r.HasConflict() {
		return ""
	}
	names := make([]string, 0, len(r.Conflicts))
	for _, c := range r.Conflicts {
		names = append(names, c.Kind.String())
	}
	return "The following are already booked in this time: " + strings.Join(names, ", ")
}
