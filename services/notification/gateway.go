package notification

import (
	"context"

	"github.com/prasetya/ridelink/internal/pkg/models"
)

// Deliverer pushes a rendered notification to the user-facing channel
type Deliverer interface {
	Deliver(ctx context.Context, n models.Notification) error
}
