package auth

import (
	"context"

	"clinicdesk/internal/store"
)

type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleDoctor Role = "DOCTOR"
	RoleUser   Role = "USER"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleDoctor || r == RoleUser
}

// Identity is the resolved caller: the authentication layer has already
// verified who they are, the engine only needs id and role. It travels as
// an explicit context value rather than ambient per-request state.
type Identity struct {
	ID   int64
	Role Role
}

// BookingScope maps the caller's role onto the listing scope applied
// before the engine is invoked: ADMIN sees every booking, DOCTOR their own
// calendar, USER their own treatments.
func (id Identity) BookingScope() store.BookingScope {
	switch id.Role {
	case RoleDoctor:
		return store.BookingScope{DoctorID: id.ID}
	case RoleUser:
		return store.BookingScope{PatientID: id.ID}
	}
	return store.BookingScope{}
}

type contextKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}
