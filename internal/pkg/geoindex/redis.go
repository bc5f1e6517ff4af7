package geoindex

import (
	"context"
	"fmt"

	"github.com/prasetya/ridelink/internal/pkg/constants"
	"github.com/prasetya/ridelink/internal/pkg/database"
	"github.com/prasetya/ridelink/internal/pkg/geo"
	"github.com/prasetya/ridelink/internal/pkg/models"
)

// RedisIndex backs DriverIndex with a Redis GEO set so driver positions
// survive process restarts and are visible to every instance.
type RedisIndex struct {
	client *database.RedisClient
	key    string
}

// NewRedisIndex creates an index over the shared driver GEO set.
func NewRedisIndex(client *database.RedisClient) *RedisIndex {
	return &RedisIndex{client: client, key: constants.KeyDriverGeo}
}

func (r *RedisIndex) Upsert(ctx context.Context, driverID string, lat, lon float64) error {
	if err := geo.Validate(models.Coordinate{Latitude: lat, Longitude: lon}); err != nil {
		return err
	}
	if err := r.client.GeoAdd(ctx, r.key, lon, lat, driverID); err != nil {
		return fmt.Errorf("geoadd driver %s: %w", driverID, err)
	}
	return nil
}

func (r *RedisIndex) Remove(ctx context.Context, driverID string) error {
	if err := r.client.ZRem(ctx, r.key, driverID); err != nil {
		return fmt.Errorf("remove driver %s from geo set: %w", driverID, err)
	}
	return nil
}

func (r *RedisIndex) Nearby(ctx context.Context, lat, lon float64, radiusKm float64, max int) ([]models.Candidate, error) {
	origin := models.Coordinate{Latitude: lat, Longitude: lon}
	if err := geo.Validate(origin); err != nil {
		return nil, err
	}
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}
	if max < 1 {
		max = 1
	}

	locations, err := r.client.GeoRadius(ctx, r.key, lon, lat, radiusKm, max)
	if err != nil {
		return nil, fmt.Errorf("georadius: %w", err)
	}

	candidates := make([]models.Candidate, 0, len(locations))
	for _, loc := range locations {
		// Recompute with our own haversine so ranking is identical across
		// index implementations.
		dist := geo.DistanceKm(origin, models.Coordinate{Latitude: loc.Latitude, Longitude: loc.Longitude})
		if dist > radiusKm {
			continue
		}
		candidates = append(candidates, models.Candidate{
			DriverID:   loc.Name,
			Latitude:   loc.Latitude,
			Longitude:  loc.Longitude,
			DistanceKm: dist,
		})
	}
	sortCandidates(candidates)
	if len(candidates) > max {
		candidates = candidates[:max]
	}
	return candidates, nil
}
