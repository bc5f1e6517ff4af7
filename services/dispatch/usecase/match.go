package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/prasetya/ridelink/internal/pkg/constants"
	"github.com/prasetya/ridelink/internal/pkg/errs"
	"github.com/prasetya/ridelink/internal/pkg/logger"
	"github.com/prasetya/ridelink/internal/pkg/models"
	"github.com/prasetya/ridelink/internal/pkg/observability"
)

// matchDriver searches for the nearest available driver within a bounded
// retry window. Assignment goes through a conditional update, so a ride the
// rider cancelled mid-search is never assigned. An exhausted window reports
// ErrNoDriversAvailable; the caller decides how to close the ride.
func (uc *DispatchUC) matchDriver(ctx context.Context, ride *models.Ride) (*models.Ride, error) {
	attempts := uc.cfg.MatchAttempts
	if attempts < 1 {
		attempts = 1
	}
	started := time.Now()

	for attempt := 1; attempt <= attempts; attempt++ {
		candidates, err := uc.index.Nearby(ctx,
			ride.Pickup.Latitude, ride.Pickup.Longitude,
			uc.cfg.SearchRadiusKm, uc.cfg.MaxCandidates)
		if err != nil {
			return nil, fmt.Errorf("driver search for ride %s: %w", ride.ID, err)
		}

		if len(candidates) > 0 {
			// Candidates arrive sorted by distance with driver id as the
			// tie break, so the first one is the match.
			chosen := candidates[0]
			assigned, err := uc.rideRepo.AssignDriver(ctx, ride.ID.String(), chosen.DriverID)
			if err != nil {
				return nil, fmt.Errorf("assign driver to ride %s: %w", ride.ID, err)
			}
			if !assigned {
				// The ride left the requested state while we searched,
				// almost certainly a rider cancellation.
				return uc.rideRepo.GetRide(ctx, ride.ID.String())
			}

			ride.DriverID = &chosen.DriverID
			ride.Status = models.RideStatusAssigned
			observability.RidesAssigned.Inc()
			observability.MatchDuration.Observe(time.Since(started).Seconds())
			logger.Info("ride assigned",
				logger.String("ride_id", ride.ID.String()),
				logger.String("driver_id", chosen.DriverID),
				logger.Float64("distance_km", chosen.DistanceKm),
				logger.Int("attempt", attempt))

			if err := uc.dispatchGW.PublishRideAssigned(ctx, ride); err != nil {
				logger.Error("ride.assigned publish failed",
					logger.String("ride_id", ride.ID.String()),
					logger.Err(err))
			}
			return ride, nil
		}

		if attempt < attempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(uc.cfg.MatchBackoff):
			}
		}
	}

	return nil, fmt.Errorf("%w: ride %s after %d attempts", errs.ErrNoDriversAvailable, ride.ID, attempts)
}

// cancelUnmatched closes a ride whose matching window produced no driver.
func (uc *DispatchUC) cancelUnmatched(ctx context.Context, ride *models.Ride) (*models.Ride, error) {
	cancelled, err := uc.rideRepo.Cancel(ctx, ride.ID.String(), models.CancelReasonNoDrivers)
	if err != nil {
		return nil, fmt.Errorf("cancel unmatched ride %s: %w", ride.ID, err)
	}
	if !cancelled {
		// Someone else closed the ride first; report what actually happened.
		return uc.rideRepo.GetRide(ctx, ride.ID.String())
	}

	ride.Status = models.RideStatusCancelled
	ride.CancelReason = models.CancelReasonNoDrivers
	observability.RidesCancelled.WithLabelValues(models.CancelReasonNoDrivers).Inc()
	logger.Warn("no drivers available, ride cancelled",
		logger.String("ride_id", ride.ID.String()),
		logger.Float64("radius_km", uc.cfg.SearchRadiusKm))

	if err := uc.dispatchGW.PublishRideCancelled(ctx, ride); err != nil {
		logger.Error("ride.cancelled publish failed",
			logger.String("ride_id", ride.ID.String()),
			logger.Err(err))
	}
	return ride, nil
}

// HandleDriverLocation applies a drivers.location event to the in-process
// geo index. Malformed events are logged and skipped so one bad payload
// cannot wedge the partition.
func (uc *DispatchUC) HandleDriverLocation(ctx context.Context, ev models.Event) error {
	driverID := ev.Metadata[constants.MetaDriverID]
	if driverID == "" {
		driverID = ev.UserID
	}
	if driverID == "" {
		logger.Warn("driver location event without driver id, skipping")
		return nil
	}

	online, err := strconv.ParseBool(ev.Metadata[constants.MetaOnline])
	if err != nil {
		logger.Warn("driver location event with bad online flag, skipping",
			logger.String("driver_id", driverID))
		return nil
	}
	if !online {
		return uc.index.Remove(ctx, driverID)
	}

	lat, latErr := strconv.ParseFloat(ev.Metadata[constants.MetaLatitude], 64)
	lon, lonErr := strconv.ParseFloat(ev.Metadata[constants.MetaLongitude], 64)
	if latErr != nil || lonErr != nil {
		logger.Warn("driver location event with bad coordinates, skipping",
			logger.String("driver_id", driverID))
		return nil
	}

	if err := uc.index.Upsert(ctx, driverID, lat, lon); err != nil {
		logger.Warn("driver location rejected by index",
			logger.String("driver_id", driverID),
			logger.Err(err))
		return nil
	}
	return nil
}
