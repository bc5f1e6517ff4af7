package dispatch

import (
	"context"

	"github.com/prasetya/ridelink/internal/pkg/models"
)

// DispatchUC defines the interface for ride lifecycle business logic
type DispatchUC interface {
	// CreateRide validates and quotes the request, persists the ride and
	// runs driver matching. The returned ride is either assigned or, when
	// no driver could be found inside the retry window, cancelled with
	// reason no_drivers_available.
	CreateRide(ctx context.Context, req models.RideRequest) (*models.Ride, error)

	GetRide(ctx context.Context, rideID string) (*models.Ride, error)

	// StartRide moves an assigned ride to in_progress.
	StartRide(ctx context.Context, rideID string) (*models.Ride, error)

	// CompleteRide finishes an in_progress ride. A non-nil dropoff that
	// differs materially from the quoted dropoff triggers a fare
	// recomputation over the actual route endpoints.
	CompleteRide(ctx context.Context, rideID string, dropoff *models.Coordinate) (*models.Ride, error)

	// CancelRide cancels a non-terminal ride. Terminal rides return
	// ErrRideClosed.
	CancelRide(ctx context.Context, rideID, reason string) (*models.Ride, error)

	// HandleDriverLocation feeds a drivers.location event into the
	// in-process geo index.
	HandleDriverLocation(ctx context.Context, ev models.Event) error
}
