package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/prasetya/ridelink/internal/pkg/database"
	"github.com/prasetya/ridelink/internal/pkg/errs"
	"github.com/prasetya/ridelink/internal/pkg/models"
	"github.com/prasetya/ridelink/services/dispatch"
)

type rideRepo struct {
	pg *database.PostgresClient
}

// NewRideRepository creates a ride repository backed by postgres
func NewRideRepository(pg *database.PostgresClient) dispatch.RideRepo {
	return &rideRepo{pg: pg}
}

// rideRow is the flat scan target for the rides table.
type rideRow struct {
	ID           uuid.UUID      `db:"id"`
	RiderID      string         `db:"rider_id"`
	DriverID     sql.NullString `db:"driver_id"`
	PickupLat    float64        `db:"pickup_latitude"`
	PickupLon    float64        `db:"pickup_longitude"`
	DropoffLat   float64        `db:"dropoff_latitude"`
	DropoffLon   float64        `db:"dropoff_longitude"`
	RequestedAt  time.Time      `db:"requested_at"`
	Status       string         `db:"status"`
	CancelReason sql.NullString `db:"cancel_reason"`
	BaseFare     float64        `db:"base_fare"`
	DistanceFare float64        `db:"distance_fare"`
	TimeFare     float64        `db:"time_fare"`
	SurgeFactor  float64        `db:"surge_factor"`
	TotalFare    float64        `db:"total_fare"`
	Currency     string         `db:"currency"`
	DistanceKm   float64        `db:"distance_km"`
	DurationMin  float64        `db:"duration_minutes"`
}

func (r rideRow) toModel() *models.Ride {
	ride := &models.Ride{
		ID:          r.ID,
		RiderID:     r.RiderID,
		Pickup:      models.Coordinate{Latitude: r.PickupLat, Longitude: r.PickupLon},
		Dropoff:     models.Coordinate{Latitude: r.DropoffLat, Longitude: r.DropoffLon},
		RequestedAt: r.RequestedAt,
		Status:      models.RideStatus(r.Status),
		Fare: models.Fare{
			BaseFare:     r.BaseFare,
			DistanceFare: r.DistanceFare,
			TimeFare:     r.TimeFare,
			SurgeFactor:  r.SurgeFactor,
			Total:        r.TotalFare,
			Currency:     r.Currency,
			DistanceKm:   r.DistanceKm,
			DurationMin:  r.DurationMin,
		},
	}
	if r.DriverID.Valid {
		ride.DriverID = &r.DriverID.String
	}
	if r.CancelReason.Valid {
		ride.CancelReason = r.CancelReason.String
	}
	return ride
}

const rideColumns = `id, rider_id, driver_id,
	pickup_latitude, pickup_longitude, dropoff_latitude, dropoff_longitude,
	requested_at, status, cancel_reason,
	base_fare, distance_fare, time_fare, surge_factor, total_fare,
	currency, distance_km, duration_minutes`

func (r *rideRepo) CreateRide(ctx context.Context, ride *models.Ride) error {
	query := `
		INSERT INTO rides (` + rideColumns + `)
		VALUES ($1, $2, NULL, $3, $4, $5, $6, $7, $8, NULL,
			$9, $10, $11, $12, $13, $14, $15, $16)`

	if _, err := r.pg.GetDB().ExecContext(ctx, query,
		ride.ID, ride.RiderID,
		ride.Pickup.Latitude, ride.Pickup.Longitude,
		ride.Dropoff.Latitude, ride.Dropoff.Longitude,
		ride.RequestedAt, string(ride.Status),
		ride.Fare.BaseFare, ride.Fare.DistanceFare, ride.Fare.TimeFare,
		ride.Fare.SurgeFactor, ride.Fare.Total, ride.Fare.Currency,
		ride.Fare.DistanceKm, ride.Fare.DurationMin,
	); err != nil {
		return fmt.Errorf("insert ride %s: %w", ride.ID, err)
	}
	return nil
}

func (r *rideRepo) GetRide(ctx context.Context, rideID string) (*models.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE id = $1`

	var row rideRow
	if err := r.pg.GetDB().GetContext(ctx, &row, query, rideID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: ride %s", errs.ErrNotFound, rideID)
		}
		return nil, fmt.Errorf("get ride %s: %w", rideID, err)
	}
	return row.toModel(), nil
}

// AssignDriver only succeeds while the ride is still requested, so a ride
// cancelled during the search window can never pick up a driver.
func (r *rideRepo) AssignDriver(ctx context.Context, rideID, driverID string) (bool, error) {
	query := `
		UPDATE rides SET driver_id = $2, status = $3
		WHERE id = $1 AND status = $4`

	res, err := r.pg.GetDB().ExecContext(ctx, query,
		rideID, driverID,
		string(models.RideStatusAssigned), string(models.RideStatusRequested))
	if err != nil {
		return false, fmt.Errorf("assign driver to ride %s: %w", rideID, err)
	}
	return oneRowChanged(res)
}

func (r *rideRepo) TransitionStatus(ctx context.Context, rideID string, from, to models.RideStatus) (bool, error) {
	query := `UPDATE rides SET status = $2 WHERE id = $1 AND status = $3`

	res, err := r.pg.GetDB().ExecContext(ctx, query, rideID, string(to), string(from))
	if err != nil {
		return false, fmt.Errorf("transition ride %s to %s: %w", rideID, to, err)
	}
	return oneRowChanged(res)
}

// Cancel refuses terminal rides at the database level; the WHERE clause is
// the transition-time check that makes concurrent cancel/complete safe.
func (r *rideRepo) Cancel(ctx context.Context, rideID, reason string) (bool, error) {
	query := `
		UPDATE rides SET status = $2, cancel_reason = $3
		WHERE id = $1 AND status NOT IN ($4, $5)`

	res, err := r.pg.GetDB().ExecContext(ctx, query,
		rideID, string(models.RideStatusCancelled), reason,
		string(models.RideStatusCompleted), string(models.RideStatusCancelled))
	if err != nil {
		return false, fmt.Errorf("cancel ride %s: %w", rideID, err)
	}
	return oneRowChanged(res)
}

func (r *rideRepo) UpdateFare(ctx context.Context, rideID string, fare models.Fare) error {
	query := `
		UPDATE rides SET
			base_fare = $2, distance_fare = $3, time_fare = $4,
			surge_factor = $5, total_fare = $6, currency = $7,
			distance_km = $8, duration_minutes = $9
		WHERE id = $1`

	if _, err := r.pg.GetDB().ExecContext(ctx, query,
		rideID,
		fare.BaseFare, fare.DistanceFare, fare.TimeFare,
		fare.SurgeFactor, fare.Total, fare.Currency,
		fare.DistanceKm, fare.DurationMin,
	); err != nil {
		return fmt.Errorf("update fare for ride %s: %w", rideID, err)
	}
	return nil
}

func oneRowChanged(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n == 1, nil
}
