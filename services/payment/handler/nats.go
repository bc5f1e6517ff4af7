package handler

import (
	"context"

	"github.com/prasetya/ridelink/internal/pkg/constants"
	"github.com/prasetya/ridelink/internal/pkg/events"
	"github.com/prasetya/ridelink/internal/pkg/models"
	"github.com/prasetya/ridelink/internal/pkg/observability"
	"github.com/prasetya/ridelink/services/payment"
)

// NATSHandler owns the payment service's consumers
type NATSHandler struct {
	paymentUC payment.PaymentUC
	consumer  events.Consumer
}

// NewNATSHandler creates a new NATS handler
func NewNATSHandler(paymentUC payment.PaymentUC, consumer events.Consumer) *NATSHandler {
	return &NATSHandler{paymentUC: paymentUC, consumer: consumer}
}

// InitConsumers subscribes to the completed-ride feed that drives
// settlement.
func (h *NATSHandler) InitConsumers() error {
	return h.consumer.Subscribe(constants.TopicRideCompleted, constants.GroupPayment,
		func(ctx context.Context, ev models.Event) error {
			err := h.paymentUC.HandleRideCompleted(ctx, ev)
			result := "ok"
			if err != nil {
				result = "error"
			}
			observability.EventsConsumed.WithLabelValues(constants.TopicRideCompleted, result).Inc()
			return err
		})
}
