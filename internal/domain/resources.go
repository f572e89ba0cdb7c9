package domain

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Reference records for the three bookable dimensions. The booking engine
// only needs their ids to exist; profile data beyond that belongs to the
// clinic administration surface.

type Clinic struct {
	bun.BaseModel `bun:"table:clinics"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Name      string    `bun:"name,notnull"`
	Phone     string    `bun:"phone"`
	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

type Doctor struct {
	bun.BaseModel `bun:"table:doctors"`

	ID         int64     `bun:"id,pk,autoincrement"`
	ClinicID   int64     `bun:"clinic_id,notnull"`
	FirstName  string    `bun:"first_name,notnull"`
	LastName   string    `bun:"last_name,notnull"`
	Department string    `bun:"department"`
	CreatedAt  time.Time `bun:"created_at,notnull"`
	UpdatedAt  time.Time `bun:"updated_at,notnull"`
}

type Patient struct {
	bun.BaseModel `bun:"table:patients"`

	ID        int64     `bun:"id,pk,autoincrement"`
	ClinicID  int64     `bun:"clinic_id,notnull"`
	FirstName string    `bun:"first_name,notnull"`
	LastName  string    `bun:"last_name,notnull"`
	Phone     string    `bun:"phone"`
	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

type Room struct {
	bun.BaseModel `bun:"table:rooms"`

	ID        int64     `bun:"id,pk,autoincrement"`
	ClinicID  int64     `bun:"clinic_id,notnull"`
	Name      string    `bun:"name,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

func touchTimestamps(query bun.Query, createdAt, updatedAt *time.Time) {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if createdAt.IsZero() {
			*createdAt = now
		}
		if updatedAt.IsZero() {
			*updatedAt = now
		}
	case *bun.UpdateQuery:
		*updatedAt = now
	}
}

func (c *Clinic) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	touchTimestamps(query, &c.CreatedAt, &c.UpdatedAt)
	return nil
}

func (d *Doctor) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	touchTimestamps(query, &d.CreatedAt, &d.UpdatedAt)
	return nil
}

func (p *Patient) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	touchTimestamps(query, &p.CreatedAt, &p.UpdatedAt)
	return nil
}

func (r *Room) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	touchTimestamps(query, &r.CreatedAt, &r.UpdatedAt)
	return nil
}
