package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/moviebook/movie-ticket-booking/internal/handler"
)

// RegisterRoutes registers routes that do not require authentication and
// carry no domain logic.  Currently it exposes only a health check, used
// by load balancers to verify that the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}
