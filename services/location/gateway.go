package location

import (
	"context"

	"github.com/prasetya/ridelink/internal/pkg/models"
)

// LocationGW defines the location gateway interface
type LocationGW interface {
	PublishDriverLocation(ctx context.Context, update models.DriverLocationEvent) error
}
