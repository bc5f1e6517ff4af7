package handler

import (
	"context"

	"github.com/prasetya/ridelink/internal/pkg/constants"
	"github.com/prasetya/ridelink/internal/pkg/events"
	"github.com/prasetya/ridelink/internal/pkg/models"
	"github.com/prasetya/ridelink/internal/pkg/observability"
	"github.com/prasetya/ridelink/services/notification"
)

// fanoutTopics are the lifecycle feeds that produce user notifications.
var fanoutTopics = []string{
	constants.TopicRideAssigned,
	constants.TopicRideCompleted,
	constants.TopicRideCancelled,
	constants.TopicPaymentProcessed,
	constants.TopicNotificationSend,
}

// NATSHandler owns the notification service's consumers
type NATSHandler struct {
	notificationUC notification.NotificationUC
	consumer       events.Consumer
}

// NewNATSHandler creates a new NATS handler
func NewNATSHandler(notificationUC notification.NotificationUC, consumer events.Consumer) *NATSHandler {
	return &NATSHandler{notificationUC: notificationUC, consumer: consumer}
}

// InitConsumers subscribes the fanout to every notifying topic under one
// durable group.
func (h *NATSHandler) InitConsumers() error {
	for _, topic := range fanoutTopics {
		topic := topic
		err := h.consumer.Subscribe(topic, constants.GroupNotification,
			func(ctx context.Context, ev models.Event) error {
				err := h.notificationUC.HandleEvent(ctx, ev)
				result := "ok"
				if err != nil {
					result = "error"
				}
				observability.EventsConsumed.WithLabelValues(topic, result).Inc()
				return err
			})
		if err != nil {
			return err
		}
	}
	return nil
}
