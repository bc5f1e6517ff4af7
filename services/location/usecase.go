package location

import (
	"context"

	"github.com/prasetya/ridelink/internal/pkg/models"
)

// LocationUC defines the interface for driver location business logic
type LocationUC interface {
	// Heartbeat records a driver position update and republishes it for
	// downstream consumers.
	Heartbeat(ctx context.Context, update models.DriverLocationEvent) error

	// SetOffline removes a driver from the dispatchable pool.
	SetOffline(ctx context.Context, driverID string) error

	// NearbyDrivers returns online drivers around a point, nearest first.
	NearbyDrivers(ctx context.Context, lat, lon, radiusKm float64, max int) ([]models.Candidate, error)

	// WarmIndex seeds the geo index from the store of record. Called once
	// at startup.
	WarmIndex(ctx context.Context) error
}
