package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/prasetya/ridelink/internal/pkg/events"
	"github.com/prasetya/ridelink/services/payment"
	httpHandler "github.com/prasetya/ridelink/services/payment/handler/http"
)

// Handler combines all handlers for the payment service
type Handler struct {
	paymentHTTP *httpHandler.PaymentHandler
	natsH       *NATSHandler
}

// NewHandler creates a new combined handler
func NewHandler(paymentUC payment.PaymentUC, consumer events.Consumer) *Handler {
	return &Handler{
		paymentHTTP: httpHandler.NewPaymentHandler(paymentUC),
		natsH:       NewNATSHandler(paymentUC, consumer),
	}
}

// RegisterRoutes registers all HTTP routes
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	v1 := e.Group("/v1")
	v1.GET("/payments/:ride_id", h.paymentHTTP.GetPaymentByRide)
}

// InitNATSConsumers initializes all NATS consumers
func (h *Handler) InitNATSConsumers() error {
	return h.natsH.InitConsumers()
}
