// Package geoindex tracks online driver positions and answers nearest-driver
// queries. Two implementations share the DriverIndex interface: an in-memory
// geohash-bucketed index kept warm by location events, and a Redis GEO set
// for state that must survive a restart.
package geoindex

import (
	"context"
	"sort"

	"github.com/prasetya/ridelink/internal/pkg/models"
)

// DefaultRadiusKm is used when a caller passes a non-positive radius.
const DefaultRadiusKm = 5.0

// DriverIndex answers proximity queries over the set of online drivers.
type DriverIndex interface {
	// Upsert records a driver's current position, adding the driver to the
	// index if absent.
	Upsert(ctx context.Context, driverID string, lat, lon float64) error

	// Remove drops a driver from the index. Removing an unknown driver is
	// not an error.
	Remove(ctx context.Context, driverID string) error

	// Nearby returns up to max drivers within radiusKm of the given point,
	// sorted by distance ascending with driver id as the tie break. A
	// non-positive radius falls back to DefaultRadiusKm, max below 1 is
	// treated as 1. An empty result is a nil-safe empty slice, not an error.
	Nearby(ctx context.Context, lat, lon float64, radiusKm float64, max int) ([]models.Candidate, error)
}

// sortCandidates orders by distance ascending, driver id as the tie break.
func sortCandidates(candidates []models.Candidate) {
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].DistanceKm != candidates[j].DistanceKm {
			return candidates[i].DistanceKm < candidates[j].DistanceKm
		}
		return candidates[i].DriverID < candidates[j].DriverID
	})
}
