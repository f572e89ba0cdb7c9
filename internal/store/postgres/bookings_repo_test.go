package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"clinicdesk/internal/domain"
	"clinicdesk/internal/store"
)

func TestResourceColumn(t *testing.T) {
	cases := []struct {
		kind domain.ResourceKind
		want string
	}{
		{domain.ResourceDoctor, "doctor_id"},
		{domain.ResourcePatient, "patient_id"},
		{domain.ResourceRoom, "room_id"},
	}
	for _, tc := range cases {
		got, err := resourceColumn(tc.kind)
		if err != nil {
			t.Fatalf("resourceColumn(%s) error: %v", tc.kind, err)
		}
		if got != tc.want {
			t.Fatalf("resourceColumn(%s) = %q, want %q", tc.kind, got, tc.want)
		}
	}

	if _, err := resourceColumn("nurse"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestMapConstraintError(t *testing.T) {
	t.Run("no-overlap exclusion becomes conflict", func(t *testing.T) {
		for _, name := range []string{
			"bookings_doctor_no_overlap",
			"bookings_patient_no_overlap",
			"bookings_room_no_overlap",
		} {
			err := mapConstraintError(&pgconn.PgError{Code: "23P01", ConstraintName: name})
			if !errors.Is(err, store.ErrConflict) {
				t.Fatalf("constraint %s: err = %v, want %v", name, err, store.ErrConflict)
			}
		}
	})

	t.Run("other errors pass through", func(t *testing.T) {
		in := &pgconn.PgError{Code: "23503", ConstraintName: "bookings_doctor_id_fkey"}
		if err := mapConstraintError(in); !errors.Is(err, in) {
			t.Fatalf("err = %v, want original", err)
		}

		plain := errors.New("boom")
		if err := mapConstraintError(plain); !errors.Is(err, plain) {
			t.Fatalf("err = %v, want original", err)
		}
	})
}
