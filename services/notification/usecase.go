package notification

import (
	"context"

	"github.com/prasetya/ridelink/internal/pkg/models"
)

// NotificationUC defines the interface for notification business logic
type NotificationUC interface {
	// HandleEvent fans a lifecycle event out as a user notification.
	// Redelivered events are deduplicated on (event type, ride id).
	HandleEvent(ctx context.Context, ev models.Event) error
}
