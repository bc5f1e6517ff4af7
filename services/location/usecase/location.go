package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/prasetya/ridelink/internal/pkg/errs"
	"github.com/prasetya/ridelink/internal/pkg/geo"
	"github.com/prasetya/ridelink/internal/pkg/geoindex"
	"github.com/prasetya/ridelink/internal/pkg/logger"
	"github.com/prasetya/ridelink/internal/pkg/models"
	"github.com/prasetya/ridelink/internal/pkg/observability"
	"github.com/prasetya/ridelink/services/location"
)

// LocationUC implements the location use case interface
type LocationUC struct {
	driverRepo location.DriverRepo
	locationGW location.LocationGW
	index      geoindex.DriverIndex
}

// NewLocationUC creates a new location use case
func NewLocationUC(
	driverRepo location.DriverRepo,
	locationGW location.LocationGW,
	index geoindex.DriverIndex,
) *LocationUC {
	return &LocationUC{
		driverRepo: driverRepo,
		locationGW: locationGW,
		index:      index,
	}
}

// Heartbeat validates and records a driver position, updates the geo index
// and republishes the update on the bus. A failed publish does not undo the
// position update; stale consumers recover on the next heartbeat.
func (uc *LocationUC) Heartbeat(ctx context.Context, update models.DriverLocationEvent) error {
	if update.DriverID == "" {
		return fmt.Errorf("%w: driver id is required", errs.ErrInvalidInput)
	}
	coord := models.Coordinate{Latitude: update.Latitude, Longitude: update.Longitude}
	if err := geo.Validate(coord); err != nil {
		return err
	}
	if update.Timestamp.IsZero() {
		update.Timestamp = time.Now().UTC()
	}
	update.Online = true

	loc := models.DriverLocation{
		DriverID:  update.DriverID,
		Latitude:  update.Latitude,
		Longitude: update.Longitude,
		Online:    true,
		UpdatedAt: update.Timestamp,
	}
	if err := uc.driverRepo.UpsertLocation(ctx, loc); err != nil {
		return fmt.Errorf("persist driver location: %w", err)
	}
	if err := uc.index.Upsert(ctx, update.DriverID, update.Latitude, update.Longitude); err != nil {
		return fmt.Errorf("index driver location: %w", err)
	}
	observability.DriverHeartbeats.Inc()

	if err := uc.locationGW.PublishDriverLocation(ctx, update); err != nil {
		logger.Warn("driver location publish failed",
			logger.String("driver_id", update.DriverID),
			logger.Err(err))
	}
	return nil
}

// SetOffline removes the driver from the dispatchable pool and announces it.
func (uc *LocationUC) SetOffline(ctx context.Context, driverID string) error {
	if driverID == "" {
		return fmt.Errorf("%w: driver id is required", errs.ErrInvalidInput)
	}
	if err := uc.driverRepo.SetOffline(ctx, driverID); err != nil {
		return fmt.Errorf("mark driver offline: %w", err)
	}
	if err := uc.index.Remove(ctx, driverID); err != nil {
		return fmt.Errorf("remove driver from index: %w", err)
	}

	update := models.DriverLocationEvent{
		DriverID:  driverID,
		Online:    false,
		Timestamp: time.Now().UTC(),
	}
	if err := uc.locationGW.PublishDriverLocation(ctx, update); err != nil {
		logger.Warn("driver offline publish failed",
			logger.String("driver_id", driverID),
			logger.Err(err))
	}
	return nil
}

// NearbyDrivers answers proximity queries from the geo index.
func (uc *LocationUC) NearbyDrivers(ctx context.Context, lat, lon, radiusKm float64, max int) ([]models.Candidate, error) {
	return uc.index.Nearby(ctx, lat, lon, radiusKm, max)
}

// WarmIndex loads every online driver from the store of record into the geo
// index so proximity queries are correct right after a restart.
func (uc *LocationUC) WarmIndex(ctx context.Context) error {
	drivers, err := uc.driverRepo.ListOnlineDrivers(ctx)
	if err != nil {
		return fmt.Errorf("list online drivers: %w", err)
	}
	for _, d := range drivers {
		if err := uc.index.Upsert(ctx, d.DriverID, d.Latitude, d.Longitude); err != nil {
			logger.Warn("skipping driver with bad stored position",
				logger.String("driver_id", d.DriverID),
				logger.Err(err))
		}
	}
	logger.Info("geo index warmed", logger.Int("drivers", len(drivers)))
	return nil
}
