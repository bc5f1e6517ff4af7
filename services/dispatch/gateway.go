package dispatch

import (
	"context"

	"github.com/prasetya/ridelink/internal/pkg/models"
)

// DispatchGW defines the dispatch gateway interface. One lifecycle event is
// published per state transition; delivery retries and dead-lettering live
// behind this interface.
type DispatchGW interface {
	PublishRideCreated(ctx context.Context, ride *models.Ride) error
	PublishRideAssigned(ctx context.Context, ride *models.Ride) error
	PublishRideStarted(ctx context.Context, ride *models.Ride) error
	PublishRideCompleted(ctx context.Context, ride *models.Ride) error
	PublishRideCancelled(ctx context.Context, ride *models.Ride) error
}
