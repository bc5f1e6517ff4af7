package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/prasetya/ridelink/services/location"
	httpHandler "github.com/prasetya/ridelink/services/location/handler/http"
)

// Handler combines all handlers for the location service
type Handler struct {
	driverHTTP *httpHandler.DriverHandler
}

// NewHandler creates a new combined handler
func NewHandler(locationUC location.LocationUC) *Handler {
	return &Handler{driverHTTP: httpHandler.NewDriverHandler(locationUC)}
}

// RegisterRoutes registers all HTTP routes
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	v1 := e.Group("/v1")
	v1.PUT("/drivers/:id/location", h.driverHTTP.Heartbeat)
	v1.DELETE("/drivers/:id/location", h.driverHTTP.SetOffline)
	v1.GET("/drivers/nearby", h.driverHTTP.Nearby)
}
