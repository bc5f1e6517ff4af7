package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/prasetya/ridelink/internal/pkg/errs"
	"github.com/prasetya/ridelink/internal/pkg/geo"
	"github.com/prasetya/ridelink/internal/pkg/logger"
	"github.com/prasetya/ridelink/internal/pkg/models"
	"github.com/prasetya/ridelink/internal/pkg/observability"
)

// CreateRide accepts a ride request, quotes it, persists it in the
// requested state and runs driver matching synchronously. The caller gets
// the final outcome of the matching window: an assigned ride or one
// cancelled for lack of drivers.
func (uc *DispatchUC) CreateRide(ctx context.Context, req models.RideRequest) (*models.Ride, error) {
	if req.RiderID == "" {
		return nil, fmt.Errorf("%w: rider id is required", errs.ErrInvalidInput)
	}
	pickup := models.Coordinate{Latitude: req.PickupLatitude, Longitude: req.PickupLongitude}
	dropoff := models.Coordinate{Latitude: req.DropoffLatitude, Longitude: req.DropoffLongitude}

	now := time.Now().UTC()
	quote, err := uc.calc.Quote(pickup, dropoff, now)
	if err != nil {
		return nil, err
	}

	ride := &models.Ride{
		ID:          uuid.New(),
		RiderID:     req.RiderID,
		Pickup:      pickup,
		Dropoff:     dropoff,
		RequestedAt: now,
		Status:      models.RideStatusRequested,
		Fare:        quote,
	}
	if err := uc.rideRepo.CreateRide(ctx, ride); err != nil {
		return nil, fmt.Errorf("persist ride: %w", err)
	}
	observability.RidesCreated.Inc()

	if err := uc.dispatchGW.PublishRideCreated(ctx, ride); err != nil {
		// The event is already dead-lettered; the ride itself is fine.
		logger.Error("ride.created publish failed",
			logger.String("ride_id", ride.ID.String()),
			logger.Err(err))
	}

	matched, err := uc.matchDriver(ctx, ride)
	if errors.Is(err, errs.ErrNoDriversAvailable) {
		// The business outcome of an empty window is a cancelled ride,
		// not a failed request.
		return uc.cancelUnmatched(ctx, ride)
	}
	return matched, err
}

// GetRide loads a ride by id.
func (uc *DispatchUC) GetRide(ctx context.Context, rideID string) (*models.Ride, error) {
	return uc.rideRepo.GetRide(ctx, rideID)
}

// StartRide moves an assigned ride to in_progress and announces it.
func (uc *DispatchUC) StartRide(ctx context.Context, rideID string) (*models.Ride, error) {
	moved, err := uc.rideRepo.TransitionStatus(ctx, rideID, models.RideStatusAssigned, models.RideStatusInProgress)
	if err != nil {
		return nil, fmt.Errorf("start ride %s: %w", rideID, err)
	}
	if !moved {
		return nil, uc.transitionRefused(ctx, rideID)
	}

	ride, err := uc.rideRepo.GetRide(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if err := uc.dispatchGW.PublishRideStarted(ctx, ride); err != nil {
		logger.Error("ride.started publish failed",
			logger.String("ride_id", rideID),
			logger.Err(err))
	}
	return ride, nil
}

// CompleteRide finishes an in_progress ride. When the actual dropoff
// deviates from the quoted one by more than the refare threshold the fare
// is recomputed over the real endpoints, using the original request time so
// the surge factor is reproducible.
func (uc *DispatchUC) CompleteRide(ctx context.Context, rideID string, dropoff *models.Coordinate) (*models.Ride, error) {
	moved, err := uc.rideRepo.TransitionStatus(ctx, rideID, models.RideStatusInProgress, models.RideStatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("complete ride %s: %w", rideID, err)
	}
	if !moved {
		return nil, uc.transitionRefused(ctx, rideID)
	}

	ride, err := uc.rideRepo.GetRide(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if dropoff != nil && geo.DistanceKm(ride.Dropoff, *dropoff) > uc.cfg.RefareThresholdKm {
		refare, err := uc.calc.Quote(ride.Pickup, *dropoff, ride.RequestedAt)
		if err != nil {
			return nil, fmt.Errorf("recompute fare for ride %s: %w", rideID, err)
		}
		if err := uc.rideRepo.UpdateFare(ctx, rideID, refare); err != nil {
			return nil, fmt.Errorf("store recomputed fare for ride %s: %w", rideID, err)
		}
		ride.Dropoff = *dropoff
		ride.Fare = refare
	}

	observability.RidesCompleted.Inc()
	if err := uc.dispatchGW.PublishRideCompleted(ctx, ride); err != nil {
		logger.Error("ride.completed publish failed",
			logger.String("ride_id", rideID),
			logger.Err(err))
	}
	return ride, nil
}

// CancelRide cancels a non-terminal ride. The status check happens at
// transition time in the repository, so a racing completion wins and the
// cancel is refused with ErrRideClosed.
func (uc *DispatchUC) CancelRide(ctx context.Context, rideID, reason string) (*models.Ride, error) {
	if reason == "" {
		reason = "cancelled_by_rider"
	}
	cancelled, err := uc.rideRepo.Cancel(ctx, rideID, reason)
	if err != nil {
		return nil, fmt.Errorf("cancel ride %s: %w", rideID, err)
	}
	if !cancelled {
		ride, err := uc.rideRepo.GetRide(ctx, rideID)
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: ride %s is %s", errs.ErrRideClosed, rideID, ride.Status)
	}

	ride, err := uc.rideRepo.GetRide(ctx, rideID)
	if err != nil {
		return nil, err
	}
	observability.RidesCancelled.WithLabelValues(reason).Inc()
	if err := uc.dispatchGW.PublishRideCancelled(ctx, ride); err != nil {
		logger.Error("ride.cancelled publish failed",
			logger.String("ride_id", rideID),
			logger.Err(err))
	}
	return ride, nil
}

// transitionRefused turns a refused conditional update into the right
// sentinel by inspecting the ride's current state.
func (uc *DispatchUC) transitionRefused(ctx context.Context, rideID string) error {
	ride, err := uc.rideRepo.GetRide(ctx, rideID)
	if err != nil {
		return err
	}
	if ride.Status.Terminal() {
		return fmt.Errorf("%w: ride %s is %s", errs.ErrRideClosed, rideID, ride.Status)
	}
	return fmt.Errorf("%w: ride %s is %s", errs.ErrInvalidTransition, rideID, ride.Status)
}
