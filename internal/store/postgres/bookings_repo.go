package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"

	"clinicdesk/internal/domain"
	"clinicdesk/internal/store"
)

type BookingRepo struct {
	db *bun.DB
}

func NewBookingRepo(db *bun.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

type bookingTx struct {
	tx bun.Tx
}

func resourceColumn(kind domain.ResourceKind) (string, error) {
	switch kind {
	case domain.ResourceDoctor:
		return "doctor_id", nil
	case domain.ResourcePatient:
		return "patient_id", nil
	case domain.ResourceRoom:
		return "room_id", nil
	}
	return "", fmt.Errorf("unknown resource kind %q", kind)
}

// findActiveBookings is the superset window query: it may include a booking
// that merely touches window.End, so callers apply TimeWindow.Overlaps for
// the precise half-open comparison.
func findActiveBookings(ctx context.Context, db bun.IDB, kind domain.ResourceKind, resourceID int64, window domain.TimeWindow, excludeID uuid.UUID) ([]domain.Booking, error) {
	col, err := resourceColumn(kind)
	if err != nil {
		return nil, err
	}

	var rows []domain.Booking
	q := db.NewSelect().
		Model(&rows).
		Where("? = ?", bun.Ident(col), resourceID).
		Where("start_time <= ?", window.End).
		Where("end_time > ?", window.Start).
		Where("status IN (?)", bun.In(domain.ActiveStatuses)).
		OrderExpr("start_time ASC")
	if excludeID != uuid.Nil {
		q = q.Where("id != ?", excludeID)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *BookingRepo) FindActiveBookings(ctx context.Context, kind domain.ResourceKind, resourceID int64, window domain.TimeWindow, excludeID uuid.UUID) ([]domain.Booking, error) {
	return findActiveBookings(ctx, r.db, kind, resourceID, window, excludeID)
}

func (r *BookingRepo) ListDayBookings(ctx context.Context, kind domain.ResourceKind, resourceID int64, dayStart, dayEnd time.Time) ([]domain.Booking, error) {
	col, err := resourceColumn(kind)
	if err != nil {
		return nil, err
	}

	var rows []domain.Booking
	err = r.db.NewSelect().
		Model(&rows).
		Where("? = ?", bun.Ident(col), resourceID).
		Where("start_time >= ?", dayStart).
		Where("start_time <= ?", dayEnd).
		Where("status IN (?)", bun.In(domain.ActiveStatuses)).
		OrderExpr("start_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *BookingRepo) GetBooking(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	var b domain.Booking
	err := r.db.NewSelect().
		Model(&b).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Booking{}, store.ErrNotFound
		}
		return domain.Booking{}, err
	}
	return b, nil
}

func (r *BookingRepo) ListBookings(ctx context.Context, scope store.BookingScope) ([]domain.Booking, error) {
	var rows []domain.Booking
	q := r.db.NewSelect().
		Model(&rows).
		OrderExpr("updated_at DESC")
	if scope.DoctorID != 0 {
		q = q.Where("doctor_id = ?", scope.DoctorID)
	}
	if scope.PatientID != 0 {
		q = q.Where("patient_id = ?", scope.PatientID)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *BookingRepo) DeleteBooking(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*domain.Booking)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *BookingRepo) ResourceExists(ctx context.Context, kind domain.ResourceKind, resourceID int64) (bool, error) {
	var model any
	switch kind {
	case domain.ResourceDoctor:
		model = (*domain.Doctor)(nil)
	case domain.ResourcePatient:
		model = (*domain.Patient)(nil)
	case domain.ResourceRoom:
		model = (*domain.Room)(nil)
	default:
		return false, fmt.Errorf("unknown resource kind %q", kind)
	}
	return r.db.NewSelect().Model(model).Where("id = ?", resourceID).Exists(ctx)
}

func (r *BookingRepo) InBookingTransaction(ctx context.Context, doctorID, patientID, roomID int64, fn func(ctx context.Context, tx store.BookingTx) error) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		// Locks are taken in the fixed Doctor, Patient, Room order so two
		// writers touching the same resources cannot deadlock.
		locks := []struct {
			kind domain.ResourceKind
			id   int64
		}{
			{domain.ResourceDoctor, doctorID},
			{domain.ResourcePatient, patientID},
			{domain.ResourceRoom, roomID},
		}
		for _, l := range locks {
			if l.id == 0 {
				continue
			}
			if err := lockResourceCalendar(ctx, tx, l.kind, l.id); err != nil {
				return err
			}
		}
		return fn(ctx, bookingTx{tx: tx})
	})
}

func lockResourceCalendar(ctx context.Context, tx bun.Tx, kind domain.ResourceKind, resourceID int64) error {
	key := fmt.Sprintf("%s:%d", kind, resourceID)
	_, err := tx.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", key).Exec(ctx)
	return err
}

func (t bookingTx) FindActiveBookings(ctx context.Context, kind domain.ResourceKind, resourceID int64, window domain.TimeWindow, excludeID uuid.UUID) ([]domain.Booking, error) {
	return findActiveBookings(ctx, t.tx, kind, resourceID, window, excludeID)
}

func (t bookingTx) CreateBooking(ctx context.Context, booking domain.Booking) (domain.Booking, error) {
	m := domain.Booking{
		ID:        booking.ID,
		DoctorID:  booking.DoctorID,
		PatientID: booking.PatientID,
		RoomID:    booking.RoomID,
		Title:     booking.Title,
		Notes:     booking.Notes,
		StartTime: booking.StartTime,
		EndTime:   booking.EndTime,
		Status:    booking.Status,
		CreatedAt: booking.CreatedAt,
		UpdatedAt: booking.UpdatedAt,
	}

	_, err := t.tx.NewInsert().Model(&m).Exec(ctx)
	if err != nil {
		return domain.Booking{}, mapConstraintError(err)
	}
	return m, nil
}

func (t bookingTx) UpdateBookingWindow(ctx context.Context, id uuid.UUID, window domain.TimeWindow) (domain.Booking, error) {
	var b domain.Booking
	err := t.tx.NewSelect().
		Model(&b).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Booking{}, store.ErrNotFound
		}
		return domain.Booking{}, err
	}

	b.StartTime = window.Start
	b.EndTime = window.End
	_, err = t.tx.NewUpdate().
		Model(&b).
		Column("start_time", "end_time", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return domain.Booking{}, mapConstraintError(err)
	}
	return b, nil
}

func (t bookingTx) UpdateBookingStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) (domain.Booking, error) {
	var b domain.Booking
	err := t.tx.NewSelect().
		Model(&b).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Booking{}, store.ErrNotFound
		}
		return domain.Booking{}, err
	}

	b.Status = status
	_, err = t.tx.NewUpdate().
		Model(&b).
		Column("status", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return domain.Booking{}, mapConstraintError(err)
	}
	return b, nil
}

// mapConstraintError translates exclusion-constraint violations from the
// per-dimension no-overlap constraints into store.ErrConflict. The
// constraints are the storage backstop for the check-then-write race.
func mapConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23P01" {
		switch pgErr.ConstraintName {
		case "bookings_doctor_no_overlap", "bookings_patient_no_overlap", "bookings_room_no_overlap":
			return store.ErrConflict
		}
	}
	return err
}
