package location

import (
	"context"

	"github.com/prasetya/ridelink/internal/pkg/models"
)

// DriverRepo defines the interface for driver location persistence
type DriverRepo interface {
	UpsertLocation(ctx context.Context, loc models.DriverLocation) error
	SetOffline(ctx context.Context, driverID string) error
	ListOnlineDrivers(ctx context.Context) ([]models.DriverLocation, error)
}
