package dispatch

import (
	"context"

	"github.com/prasetya/ridelink/internal/pkg/models"
)

// RideRepo defines the interface for ride persistence. Status-changing
// operations are conditional on the current status so concurrent writers
// cannot resurrect a terminal ride; the boolean result reports whether the
// row actually moved.
type RideRepo interface {
	CreateRide(ctx context.Context, ride *models.Ride) error
	GetRide(ctx context.Context, rideID string) (*models.Ride, error)

	// AssignDriver moves requested -> assigned and records the driver,
	// returning false when the ride left the requested state meanwhile.
	AssignDriver(ctx context.Context, rideID, driverID string) (bool, error)

	// TransitionStatus moves from -> to, returning false when the ride was
	// not in the from state.
	TransitionStatus(ctx context.Context, rideID string, from, to models.RideStatus) (bool, error)

	// Cancel marks the ride cancelled with a reason unless it is already
	// terminal; false means no row changed.
	Cancel(ctx context.Context, rideID, reason string) (bool, error)

	// UpdateFare replaces the stored fare breakdown.
	UpdateFare(ctx context.Context, rideID string, fare models.Fare) error
}
