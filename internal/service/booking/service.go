package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"clinicdesk/internal/domain"
	"clinicdesk/internal/store"
)

// ErrPaidImmutable is returned when a caller tries to delete a booking that
// has been paid for. Paid bookings are the patient's treatment record and
// stay on file.
var ErrPaidImmutable = errors.New("paid bookings cannot be deleted")

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

// ConflictError carries the structured per-kind report for a rejected
// booking write.
type ConflictError struct {
	Report domain.ConflictReport
}

func (e *ConflictError) Error() string {
	return e.Report.Message()
}

type Service struct {
	repo store.BookingRepository
}

func NewService(repo store.BookingRepository) *Service {
	return &Service{repo: repo}
}

type CheckInput struct {
	DoctorID         int64
	PatientID        int64
	RoomID           int64
	Window           domain.TimeWindow
	ExcludeBookingID uuid.UUID
}

func (in CheckInput) resourceID(kind domain.ResourceKind) int64 {
	switch kind {
	case domain.ResourceDoctor:
		return in.DoctorID
	case domain.ResourcePatient:
		return in.PatientID
	case domain.ResourceRoom:
		return in.RoomID
	}
	return 0
}

// activeBookingFinder is the slice of the store the checker needs. Both the
// repository and its in-transaction view satisfy it, so the same check runs
// as a standalone predicate and as the guard before a write.
type activeBookingFinder interface {
	FindActiveBookings(ctx context.Context, kind domain.ResourceKind, resourceID int64, window domain.TimeWindow, excludeID uuid.UUID) ([]domain.Booking, error)
}

// CheckConflict reports which resource kinds already have an active booking
// overlapping the window. It is a pure predicate: no state is changed
// whatever the outcome. A zero resource id skips that dimension entirely.
func (s *Service) CheckConflict(ctx context.Context, in CheckInput) (domain.ConflictReport, error) {
	return checkConflict(ctx, s.repo, in)
}

func checkConflict(ctx context.Context, finder activeBookingFinder, in CheckInput) (domain.ConflictReport, error) {
	win := in.Window.UTC()
	if err := win.Validate(); err != nil {
		return domain.ConflictReport{}, err
	}

	var report domain.ConflictReport
	for _, kind := range domain.AllResourceKinds {
		resourceID := in.resourceID(kind)
		if resourceID == 0 {
			continue
		}

		candidates, err := finder.FindActiveBookings(ctx, kind, resourceID, win, in.ExcludeBookingID)
		if err != nil {
			return domain.ConflictReport{}, err
		}

		var ids []uuid.UUID
		for _, b := range candidates {
			if win.Overlaps(b.Window()) {
				ids = append(ids, b.ID)
			}
		}
		if len(ids) > 0 {
			report.Conflicts = append(report.Conflicts, domain.ResourceConflict{Kind: kind, BookingIDs: ids})
		}
	}
	return report, nil
}

type CreateInput struct {
	DoctorID  int64
	PatientID int64
	RoomID    int64
	Title     string
	Notes     string
	StartTime time.Time
	EndTime   time.Time
}

func (s *Service) Create(ctx context.Context, in CreateInput) (domain.Booking, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return domain.Booking{}, validationError("title is required")
	}
	if in.DoctorID == 0 {
		return domain.Booking{}, validationError("doctor_id is required")
	}
	if in.PatientID == 0 {
		return domain.Booking{}, validationError("patient_id is required")
	}
	if in.RoomID == 0 {
		return domain.Booking{}, validationError("room_id is required")
	}

	win := domain.NewTimeWindow(in.StartTime, in.EndTime)
	if err := win.Validate(); err != nil {
		return domain.Booking{}, err
	}
	if win.Duration() > 24*time.Hour {
		return domain.Booking{}, validationError("duration too long")
	}

	for _, kind := range domain.AllResourceKinds {
		id := CheckInput{DoctorID: in.DoctorID, PatientID: in.PatientID, RoomID: in.RoomID}.resourceID(kind)
		exists, err := s.repo.ResourceExists(ctx, kind, id)
		if err != nil {
			return domain.Booking{}, err
		}
		if !exists {
			return domain.Booking{}, fmt.Errorf("%s %d: %w", strings.ToLower(kind.String()), id, store.ErrNotFound)
		}
	}

	var created domain.Booking
	err := s.repo.InBookingTransaction(ctx, in.DoctorID, in.PatientID, in.RoomID, func(ctx context.Context, tx store.BookingTx) error {
		report, err := checkConflict(ctx, tx, CheckInput{
			DoctorID:  in.DoctorID,
			PatientID: in.PatientID,
			RoomID:    in.RoomID,
			Window:    win,
		})
		if err != nil {
			return err
		}
		if report.HasConflict() {
			return &ConflictError{Report: report}
		}

		b, err := tx.CreateBooking(ctx, domain.Booking{
			DoctorID:  in.DoctorID,
			PatientID: in.PatientID,
			RoomID:    in.RoomID,
			Title:     title,
			Notes:     in.Notes,
			StartTime: win.Start,
			EndTime:   win.End,
			Status:    domain.BookingStatusPending,
		})
		if err != nil {
			return err
		}
		created = b
		return nil
	})
	if err != nil {
		return domain.Booking{}, err
	}
	return created, nil
}

// Reschedule moves a booking to a new window. The booking's own id is
// excluded from the conflict check so an unchanged or shrinking window
// never conflicts with itself; an exactly unchanged window skips the check
// and the write altogether.
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, window domain.TimeWindow) (domain.Booking, error) {
	if id == uuid.Nil {
		return domain.Booking{}, validationError("booking_id is required")
	}
	win := window.UTC()
	if err := win.Validate(); err != nil {
		return domain.Booking{}, err
	}

	current, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return domain.Booking{}, err
	}
	if current.StartTime.Equal(win.Start) && current.EndTime.Equal(win.End) {
		return current, nil
	}

	var updated domain.Booking
	err = s.repo.InBookingTransaction(ctx, current.DoctorID, current.PatientID, current.RoomID, func(ctx context.Context, tx store.BookingTx) error {
		if current.Status.Active() {
			report, err := checkConflict(ctx, tx, CheckInput{
				DoctorID:         current.DoctorID,
				PatientID:        current.PatientID,
				RoomID:           current.RoomID,
				Window:           win,
				ExcludeBookingID: id,
			})
			if err != nil {
				return err
			}
			if report.HasConflict() {
				return &ConflictError{Report: report}
			}
		}

		b, err := tx.UpdateBookingWindow(ctx, id, win)
		if err != nil {
			return err
		}
		updated = b
		return nil
	})
	if err != nil {
		return domain.Booking{}, err
	}
	return updated, nil
}

// UpdateStatus transitions a booking's lifecycle status. A transition that
// re-activates a previously inactive booking re-runs the conflict check,
// since its window starts blocking the calendar again.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) (domain.Booking, error) {
	if id == uuid.Nil {
		return domain.Booking{}, validationError("booking_id is required")
	}
	if !status.Valid() {
		return domain.Booking{}, validationError("invalid status")
	}

	current, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return domain.Booking{}, err
	}

	var updated domain.Booking
	err = s.repo.InBookingTransaction(ctx, current.DoctorID, current.PatientID, current.RoomID, func(ctx context.Context, tx store.BookingTx) error {
		if status.Active() && !current.Status.Active() {
			report, err := checkConflict(ctx, tx, CheckInput{
				DoctorID:         current.DoctorID,
				PatientID:        current.PatientID,
				RoomID:           current.RoomID,
				Window:           current.Window(),
				ExcludeBookingID: id,
			})
			if err != nil {
				return err
			}
			if report.HasConflict() {
				return &ConflictError{Report: report}
			}
		}

		b, err := tx.UpdateBookingStatus(ctx, id, status)
		if err != nil {
			return err
		}
		updated = b
		return nil
	})
	if err != nil {
		return domain.Booking{}, err
	}
	return updated, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	if id == uuid.Nil {
		return domain.Booking{}, validationError("booking_id is required")
	}
	return s.repo.GetBooking(ctx, id)
}

func (s *Service) List(ctx context.Context, scope store.BookingScope) ([]domain.Booking, error) {
	return s.repo.ListBookings(ctx, scope)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return validationError("booking_id is required")
	}
	current, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return err
	}
	if current.Status == domain.BookingStatusPaid {
		return ErrPaidImmutable
	}
	return s.repo.DeleteBooking(ctx, id)
}
