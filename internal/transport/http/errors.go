package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"clinicdesk/internal/domain"
	"clinicdesk/internal/service/availability"
	"clinicdesk/internal/service/booking"
	"clinicdesk/internal/store"
)

// conflictResponse is the body of a 409: the deterministic per-kind report
// plus the rendered message.
type conflictResponse struct {
	Message   string                    `json:"message"`
	Conflicts []domain.ResourceConflict `json:"conflicts"`
}

func writeError(c echo.Context, err error) error {
	var conflictErr *booking.ConflictError
	if errors.As(err, &conflictErr) {
		return c.JSON(http.StatusConflict, conflictResponse{
			Message:   conflictErr.Report.Message(),
			Conflicts: conflictErr.Report.Conflicts,
		})
	}

	var bookingErr *booking.ValidationError
	var availErr *availability.ValidationError
	switch {
	case errors.Is(err, domain.ErrInvalidWindow):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.As(err, &bookingErr):
		return echo.NewHTTPError(http.StatusBadRequest, bookingErr.Error())
	case errors.As(err, &availErr):
		return echo.NewHTTPError(http.StatusBadRequest, availErr.Error())
	case errors.Is(err, store.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, "that time is already booked, pick a different slot")
	case errors.Is(err, booking.ErrPaidImmutable):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
}
