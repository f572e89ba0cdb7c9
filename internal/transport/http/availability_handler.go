package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"clinicdesk/internal/domain"
)

type availabilityService interface {
	OccupiedSlots(ctx context.Context, kind domain.ResourceKind, resourceID int64, day string) ([]string, error)
}

type AvailabilityHandler struct {
	svc availabilityService
	log *slog.Logger
}

func NewAvailabilityHandler(svc availabilityService, log *slog.Logger) *AvailabilityHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AvailabilityHandler{
		svc: svc,
		log: log.With(slog.String("component", "http.availability")),
	}
}

func (h *AvailabilityHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/availability", h.OccupiedSlots)
}

type occupiedSlotsResponse struct {
	Kind       domain.ResourceKind `json:"kind"`
	ResourceID int64               `json:"resource_id"`
	Day        string              `json:"day"`
	Slots      []string            `json:"slots"`
}

// OccupiedSlots answers for one resource dimension at a time; a combined
// calendar view calls once per kind and presents the answers side by side.
func (h *AvailabilityHandler) OccupiedSlots(c echo.Context) error {
	kind := domain.ResourceKind(c.QueryParam("kind"))

	resourceID := int64(0)
	if raw := c.QueryParam("id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
		}
		resourceID = id
	}
	day := c.QueryParam("day")

	slots, err := h.svc.OccupiedSlots(c.Request().Context(), kind, resourceID, day)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, occupiedSlotsResponse{
		Kind:       kind,
		ResourceID: resourceID,
		Day:        day,
		Slots:      slots,
	})
}
