package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"clinicdesk/internal/auth"
	"clinicdesk/internal/domain"
	"clinicdesk/internal/service/booking"
	"clinicdesk/internal/store"
)

type bookingService interface {
	CheckConflict(ctx context.Context, in booking.CheckInput) (domain.ConflictReport, error)
	Create(ctx context.Context, in booking.CreateInput) (domain.Booking, error)
	Reschedule(ctx context.Context, id uuid.UUID, window domain.TimeWindow) (domain.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) (domain.Booking, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Booking, error)
	List(ctx context.Context, scope store.BookingScope) ([]domain.Booking, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type BookingsHandler struct {
	svc bookingService
	log *slog.Logger
}

func NewBookingsHandler(svc bookingService, log *slog.Logger) *BookingsHandler {
	if log == nil {
		log = slog.Default()
	}
	return &BookingsHandler{
		svc: svc,
		log: log.With(slog.String("component", "http.bookings")),
	}
}

func (h *BookingsHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/bookings", h.List)
	g.GET("/bookings/:id", h.Get)
	g.POST("/bookings/check", h.Check)
	g.POST("/bookings", h.Create, RequireStaff)
	g.PATCH("/bookings/:id/window", h.Reschedule, RequireStaff)
	g.PATCH("/bookings/:id/status", h.UpdateStatus, RequireStaff)
	g.DELETE("/bookings/:id", h.Delete, RequireStaff)
}

type bookingResponse struct {
	ID        uuid.UUID            `json:"id"`
	DoctorID  int64                `json:"doctor_id"`
	PatientID int64                `json:"patient_id"`
	RoomID    int64                `json:"room_id"`
	Title     string               `json:"title"`
	Notes     string               `json:"notes,omitempty"`
	StartTime time.Time            `json:"start_time"`
	EndTime   time.Time            `json:"end_time"`
	Status    domain.BookingStatus `json:"status"`
	UpdatedAt time.Time            `json:"updated_at"`
}

func toBookingResponse(b domain.Booking) bookingResponse {
	return bookingResponse{
		ID:        b.ID,
		DoctorID:  b.DoctorID,
		PatientID: b.PatientID,
		RoomID:    b.RoomID,
		Title:     b.Title,
		Notes:     b.Notes,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		Status:    b.Status,
		UpdatedAt: b.UpdatedAt,
	}
}

type checkRequest struct {
	DoctorID         int64     `json:"doctor_id"`
	PatientID        int64     `json:"patient_id"`
	RoomID           int64     `json:"room_id"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	ExcludeBookingID string    `json:"exclude_booking_id,omitempty"`
}

type checkResponse struct {
	HasConflict bool                      `json:"has_conflict"`
	Message     string                    `json:"message,omitempty"`
	Conflicts   []domain.ResourceConflict `json:"conflicts,omitempty"`
}

func (h *BookingsHandler) Check(c echo.Context) error {
	var req checkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	excludeID := uuid.Nil
	if req.ExcludeBookingID != "" {
		id, err := uuid.Parse(req.ExcludeBookingID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid exclude_booking_id")
		}
		excludeID = id
	}

	report, err := h.svc.CheckConflict(c.Request().Context(), booking.CheckInput{
		DoctorID:         req.DoctorID,
		PatientID:        req.PatientID,
		RoomID:           req.RoomID,
		Window:           domain.NewTimeWindow(req.StartTime, req.EndTime),
		ExcludeBookingID: excludeID,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, checkResponse{
		HasConflict: report.HasConflict(),
		Message:     report.Message(),
		Conflicts:   report.Conflicts,
	})
}

type createBookingRequest struct {
	DoctorID  int64     `json:"doctor_id"`
	PatientID int64     `json:"patient_id"`
	RoomID    int64     `json:"room_id"`
	Title     string    `json:"title"`
	Notes     string    `json:"notes"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

func (h *BookingsHandler) Create(c echo.Context) error {
	log := h.log.With(slog.String("handler", "Create"))

	identity, _ := auth.IdentityFromContext(c.Request().Context())

	var req createBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if identity.Role != auth.RoleAdmin && identity.ID != req.DoctorID {
		return echo.NewHTTPError(http.StatusForbidden, "forbidden, doctors may only book their own calendar")
	}

	b, err := h.svc.Create(c.Request().Context(), booking.CreateInput{
		DoctorID:  req.DoctorID,
		PatientID: req.PatientID,
		RoomID:    req.RoomID,
		Title:     req.Title,
		Notes:     req.Notes,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		logBookingError(log, err, req.DoctorID, req.PatientID, req.RoomID)
		return writeError(c, err)
	}

	log.Info("booking created",
		slog.String("booking_id", b.ID.String()),
		slog.Int64("doctor_id", b.DoctorID),
		slog.Int64("patient_id", b.PatientID),
		slog.Int64("room_id", b.RoomID),
		slog.Time("start_time", b.StartTime),
		slog.Time("end_time", b.EndTime),
	)
	return c.JSON(http.StatusCreated, toBookingResponse(b))
}

func (h *BookingsHandler) List(c echo.Context) error {
	identity, ok := auth.IdentityFromContext(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing identity")
	}

	rows, err := h.svc.List(c.Request().Context(), identity.BookingScope())
	if err != nil {
		return writeError(c, err)
	}

	out := make([]bookingResponse, 0, len(rows))
	for _, b := range rows {
		out = append(out, toBookingResponse(b))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *BookingsHandler) Get(c echo.Context) error {
	identity, _ := auth.IdentityFromContext(c.Request().Context())

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}

	b, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	if !canSeeBooking(identity, b) {
		return echo.NewHTTPError(http.StatusForbidden, "forbidden, this is not your booking")
	}
	return c.JSON(http.StatusOK, toBookingResponse(b))
}

type rescheduleRequest struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

func (h *BookingsHandler) Reschedule(c echo.Context) error {
	log := h.log.With(slog.String("handler", "Reschedule"))

	identity, _ := auth.IdentityFromContext(c.Request().Context())

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}

	var req rescheduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	current, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	if !canSeeBooking(identity, current) {
		return echo.NewHTTPError(http.StatusForbidden, "forbidden, this is not your booking")
	}

	b, err := h.svc.Reschedule(c.Request().Context(), id, domain.NewTimeWindow(req.StartTime, req.EndTime))
	if err != nil {
		logBookingError(log, err, current.DoctorID, current.PatientID, current.RoomID)
		return writeError(c, err)
	}

	log.Info("booking rescheduled",
		slog.String("booking_id", b.ID.String()),
		slog.Time("start_time", b.StartTime),
		slog.Time("end_time", b.EndTime),
	)
	return c.JSON(http.StatusOK, toBookingResponse(b))
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *BookingsHandler) UpdateStatus(c echo.Context) error {
	log := h.log.With(slog.String("handler", "UpdateStatus"))

	identity, _ := auth.IdentityFromContext(c.Request().Context())

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	current, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	if identity.Role != auth.RoleAdmin && identity.ID != current.DoctorID {
		return echo.NewHTTPError(http.StatusForbidden, "forbidden, this is not your booking")
	}

	b, err := h.svc.UpdateStatus(c.Request().Context(), id, domain.BookingStatus(req.Status))
	if err != nil {
		return writeError(c, err)
	}

	log.Info("booking status updated",
		slog.String("booking_id", b.ID.String()),
		slog.String("status", string(b.Status)),
	)
	return c.JSON(http.StatusOK, toBookingResponse(b))
}

func (h *BookingsHandler) Delete(c echo.Context) error {
	log := h.log.With(slog.String("handler", "Delete"))

	identity, _ := auth.IdentityFromContext(c.Request().Context())

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}

	current, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	if identity.Role != auth.RoleAdmin && identity.ID != current.DoctorID {
		return echo.NewHTTPError(http.StatusForbidden, "forbidden, please contact the doctor or an admin")
	}

	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}

	log.Info("booking deleted", slog.String("booking_id", id.String()))
	return c.NoContent(http.StatusNoContent)
}

func canSeeBooking(identity auth.Identity, b domain.Booking) bool {
	if identity.Role == auth.RoleAdmin {
		return true
	}
	return identity.ID == b.DoctorID || identity.ID == b.PatientID
}

func logBookingError(log *slog.Logger, err error, doctorID, patientID, roomID int64) {
	attrs := []any{
		slog.Int64("doctor_id", doctorID),
		slog.Int64("patient_id", patientID),
		slog.Int64("room_id", roomID),
	}
	var conflictErr *booking.ConflictError
	if errors.As(err, &conflictErr) {
		attrs = append(attrs, slog.Any("conflict_kinds", conflictErr.Report.Kinds()))
		log.Info("booking conflict", attrs...)
		return
	}
	attrs = append(attrs, slog.Any("err", err))
	log.Warn("booking write rejected", attrs...)
}
