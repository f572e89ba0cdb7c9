package http

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"clinicdesk/internal/auth"
)

// Claims is the token payload the authentication layer issues. The engine
// only consumes the resolved id and role.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"uid"`
	Role   string `json:"role"`
}

// Authenticate verifies the bearer token and threads the caller identity
// into the request context.
func Authenticate(signingKey []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			claims := new(Claims)
			token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return signingKey, nil
			})
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			role := auth.Role(strings.ToUpper(claims.Role))
			if claims.UserID == 0 || !role.Valid() {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
			}

			identity := auth.Identity{ID: claims.UserID, Role: role}
			ctx := auth.WithIdentity(c.Request().Context(), identity)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// RequireStaff rejects plain users on routes that create or destroy
// bookings; only doctors and admins may book.
func RequireStaff(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		identity, ok := auth.IdentityFromContext(c.Request().Context())
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing identity")
		}
		if identity.Role != auth.RoleAdmin && identity.Role != auth.RoleDoctor {
			return echo.NewHTTPError(http.StatusForbidden, "forbidden, please contact the clinic staff")
		}
		return next(c)
	}
}
