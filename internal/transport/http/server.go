package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// NewServer wires the thin HTTP layer: everything under /api carries a
// verified caller identity before the engine is invoked.
func NewServer(signingKey []byte, bookings *BookingsHandler, availability *AvailabilityHandler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/api", Authenticate(signingKey))
	bookings.RegisterRoutes(api)
	availability.RegisterRoutes(api)

	return e
}
