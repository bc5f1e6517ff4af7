package handler

import (
	"context"

	"github.com/prasetya/ridelink/internal/pkg/constants"
	"github.com/prasetya/ridelink/internal/pkg/events"
	"github.com/prasetya/ridelink/internal/pkg/models"
	"github.com/prasetya/ridelink/internal/pkg/observability"
	"github.com/prasetya/ridelink/services/dispatch"
)

// NATSHandler owns the dispatch service's consumers
type NATSHandler struct {
	dispatchUC dispatch.DispatchUC
	consumer   events.Consumer
}

// NewNATSHandler creates a new NATS handler
func NewNATSHandler(dispatchUC dispatch.DispatchUC, consumer events.Consumer) *NATSHandler {
	return &NATSHandler{dispatchUC: dispatchUC, consumer: consumer}
}

// InitConsumers subscribes to the driver location feed that keeps the
// in-process geo index current.
func (h *NATSHandler) InitConsumers() error {
	return h.consumer.Subscribe(constants.TopicDriverLocation, constants.GroupDispatch,
		func(ctx context.Context, ev models.Event) error {
			err := h.dispatchUC.HandleDriverLocation(ctx, ev)
			result := "ok"
			if err != nil {
				result = "error"
			}
			observability.EventsConsumed.WithLabelValues(constants.TopicDriverLocation, result).Inc()
			return err
		})
}
