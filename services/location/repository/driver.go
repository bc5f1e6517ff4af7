package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/prasetya/ridelink/internal/pkg/constants"
	"github.com/prasetya/ridelink/internal/pkg/database"
	"github.com/prasetya/ridelink/internal/pkg/models"
	"github.com/prasetya/ridelink/services/location"
)

// locationHashTTL bounds how long a driver's last position outlives its
// final heartbeat in Redis.
const locationHashTTL = 24 * time.Hour

type driverRepo struct {
	pg    *database.PostgresClient
	redis *database.RedisClient
}

// NewDriverRepository creates a driver repository backed by postgres, with a
// Redis hash mirror of each driver's last position for cheap lookups.
func NewDriverRepository(pg *database.PostgresClient, redis *database.RedisClient) location.DriverRepo {
	return &driverRepo{pg: pg, redis: redis}
}

// UpsertLocation writes the driver's position to the drivers table and
// mirrors it into Redis.
func (r *driverRepo) UpsertLocation(ctx context.Context, loc models.DriverLocation) error {
	query := `
		INSERT INTO drivers (driver_id, latitude, longitude, online, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (driver_id) DO UPDATE SET
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			online = EXCLUDED.online,
			updated_at = EXCLUDED.updated_at`

	if _, err := r.pg.GetDB().ExecContext(ctx, query,
		loc.DriverID, loc.Latitude, loc.Longitude, loc.Online, loc.UpdatedAt); err != nil {
		return fmt.Errorf("upsert driver %s: %w", loc.DriverID, err)
	}

	if r.redis != nil {
		key := fmt.Sprintf(constants.KeyDriverLocation, loc.DriverID)
		data := map[string]interface{}{
			constants.FieldLatitude:  strconv.FormatFloat(loc.Latitude, 'f', -1, 64),
			constants.FieldLongitude: strconv.FormatFloat(loc.Longitude, 'f', -1, 64),
			constants.FieldTimestamp: strconv.FormatInt(loc.UpdatedAt.Unix(), 10),
			constants.FieldOnline:    strconv.FormatBool(loc.Online),
		}
		if err := r.redis.HSet(ctx, key, data); err != nil {
			return fmt.Errorf("mirror driver %s position: %w", loc.DriverID, err)
		}
		if err := r.redis.Expire(ctx, key, locationHashTTL); err != nil {
			return fmt.Errorf("set position TTL for driver %s: %w", loc.DriverID, err)
		}
	}
	return nil
}

// SetOffline flips the online flag; the row is kept for history.
func (r *driverRepo) SetOffline(ctx context.Context, driverID string) error {
	query := `UPDATE drivers SET online = false, updated_at = $2 WHERE driver_id = $1`
	if _, err := r.pg.GetDB().ExecContext(ctx, query, driverID, time.Now().UTC()); err != nil {
		return fmt.Errorf("mark driver %s offline: %w", driverID, err)
	}

	if r.redis != nil {
		key := fmt.Sprintf(constants.KeyDriverLocation, driverID)
		if err := r.redis.Delete(ctx, key); err != nil {
			return fmt.Errorf("drop position mirror for driver %s: %w", driverID, err)
		}
	}
	return nil
}

// ListOnlineDrivers returns every driver currently marked online, used to
// warm the geo index at startup.
func (r *driverRepo) ListOnlineDrivers(ctx context.Context) ([]models.DriverLocation, error) {
	query := `
		SELECT driver_id, latitude, longitude, online, updated_at
		FROM drivers
		WHERE online = true`

	var drivers []models.DriverLocation
	if err := r.pg.GetDB().SelectContext(ctx, &drivers, query); err != nil {
		return nil, fmt.Errorf("list online drivers: %w", err)
	}
	return drivers, nil
}
