package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/prasetya/ridelink/internal/pkg/events"
	"github.com/prasetya/ridelink/services/dispatch"
	httpHandler "github.com/prasetya/ridelink/services/dispatch/handler/http"
)

// Handler combines all handlers for the dispatch service
type Handler struct {
	rideHTTP *httpHandler.RideHandler
	natsH    *NATSHandler
}

// NewHandler creates a new combined handler
func NewHandler(dispatchUC dispatch.DispatchUC, consumer events.Consumer) *Handler {
	return &Handler{
		rideHTTP: httpHandler.NewRideHandler(dispatchUC),
		natsH:    NewNATSHandler(dispatchUC, consumer),
	}
}

// RegisterRoutes registers all HTTP routes
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	v1 := e.Group("/v1")
	v1.POST("/rides", h.rideHTTP.CreateRide)
	v1.GET("/rides/:id", h.rideHTTP.GetRide)
	v1.POST("/rides/:id/start", h.rideHTTP.StartRide)
	v1.POST("/rides/:id/complete", h.rideHTTP.CompleteRide)
	v1.POST("/rides/:id/cancel", h.rideHTTP.CancelRide)
}

// InitNATSConsumers initializes all NATS consumers
func (h *Handler) InitNATSConsumers() error {
	return h.natsH.InitConsumers()
}
