package geoindex

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/mmcloughlin/geohash"

	"github.com/prasetya/ridelink/internal/pkg/geo"
	"github.com/prasetya/ridelink/internal/pkg/models"
)

// bucketPrecision gives cells of roughly 4.9 x 4.9 km, a good fit for
// city-scale dispatch radii.
const bucketPrecision = 5

const (
	kmPerDegreeLat = 110.574
	kmPerDegreeLon = 111.320
)

type memoryEntry struct {
	lat       float64
	lon       float64
	cell      string
	updatedAt time.Time
}

// MemoryIndex is an in-process DriverIndex. Positions are bucketed by
// geohash cell so Nearby only scans cells intersecting the query circle.
// Entries older than the staleness TTL are invisible to Nearby and reaped
// lazily.
type MemoryIndex struct {
	mu      sync.RWMutex
	drivers map[string]memoryEntry
	buckets map[string]map[string]struct{}
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryIndex creates an empty index. ttl <= 0 disables staleness
// filtering.
func NewMemoryIndex(ttl time.Duration) *MemoryIndex {
	return &MemoryIndex{
		drivers: make(map[string]memoryEntry),
		buckets: make(map[string]map[string]struct{}),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *MemoryIndex) Upsert(ctx context.Context, driverID string, lat, lon float64) error {
	if err := geo.Validate(models.Coordinate{Latitude: lat, Longitude: lon}); err != nil {
		return err
	}

	cell := geohash.EncodeWithPrecision(lat, lon, bucketPrecision)

	m.mu.Lock()
	defer m.mu.Unlock()

	if prev, ok := m.drivers[driverID]; ok && prev.cell != cell {
		m.removeFromBucket(prev.cell, driverID)
	}
	m.drivers[driverID] = memoryEntry{lat: lat, lon: lon, cell: cell, updatedAt: m.now()}
	if m.buckets[cell] == nil {
		m.buckets[cell] = make(map[string]struct{})
	}
	m.buckets[cell][driverID] = struct{}{}
	return nil
}

func (m *MemoryIndex) Remove(ctx context.Context, driverID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry, ok := m.drivers[driverID]; ok {
		m.removeFromBucket(entry.cell, driverID)
		delete(m.drivers, driverID)
	}
	return nil
}

func (m *MemoryIndex) Nearby(ctx context.Context, lat, lon float64, radiusKm float64, max int) ([]models.Candidate, error) {
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

	cutoff := time.Time{}
	if m.ttl > 0 {
		cutoff = m.now().Add(-m.ttl)
	}

	var stale []string
	candidates := make([]models.Candidate, 0)

	m.mu.RLock()
	for _, cell := range coveringCells(lat, lon, radiusKm) {
		for driverID := range m.buckets[cell] {
			entry := m.drivers[driverID]
			if !cutoff.IsZero() && entry.updatedAt.Before(cutoff) {
				stale = append(stale, driverID)
				continue
			}
			dist := geo.DistanceKm(origin, models.Coordinate{Latitude: entry.lat, Longitude: entry.lon})
			if dist > radiusKm {
				continue
			}
			candidates = append(candidates, models.Candidate{
				DriverID:   driverID,
				Latitude:   entry.lat,
				Longitude:  entry.lon,
				DistanceKm: dist,
			})
		}
	}
	m.mu.RUnlock()

	if len(stale) > 0 {
		m.reap(stale, cutoff)
	}

	sortCandidates(candidates)
	if len(candidates) > max {
		candidates = candidates[:max]
	}
	return candidates, nil
}

// Len reports the number of tracked drivers, stale entries included.
func (m *MemoryIndex) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.drivers)
}

func (m *MemoryIndex) removeFromBucket(cell, driverID string) {
	if bucket, ok := m.buckets[cell]; ok {
		delete(bucket, driverID)
		if len(bucket) == 0 {
			delete(m.buckets, cell)
		}
	}
}

// reap drops entries confirmed stale under the write lock. The entry is
// rechecked in case a heartbeat landed between the read and write phases.
func (m *MemoryIndex) reap(driverIDs []string, cutoff time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range driverIDs {
		entry, ok := m.drivers[id]
		if !ok || !entry.updatedAt.Before(cutoff) {
			continue
		}
		m.removeFromBucket(entry.cell, id)
		delete(m.drivers, id)
	}
}

// coveringCells enumerates the geohash cells intersecting the bounding box
// of the query circle.
func coveringCells(lat, lon, radiusKm float64) []string {
	latDelta := radiusKm / kmPerDegreeLat
	cosLat := math.Cos(lat * math.Pi / 180)
	if cosLat < 0.01 {
		cosLat = 0.01
	}
	lonDelta := radiusKm / (kmPerDegreeLon * cosLat)

	// Cell size at bucketPrecision: 25 bits split 13 lon / 12 lat.
	latStep := 180.0 / float64(int(1)<<12)
	lonStep := 360.0 / float64(int(1)<<13)

	seen := make(map[string]struct{})
	cells := make([]string, 0, 9)
	for la := lat - latDelta; la <= lat+latDelta+latStep; la += latStep {
		for lo := lon - lonDelta; lo <= lon+lonDelta+lonStep; lo += lonStep {
			cell := geohash.EncodeWithPrecision(clampLat(la), wrapLon(lo), bucketPrecision)
			if _, ok := seen[cell]; ok {
				continue
			}
			seen[cell] = struct{}{}
			cells = append(cells, cell)
		}
	}
	return cells
}

func clampLat(lat float64) float64 {
	return math.Max(-90, math.Min(90, lat))
}

func wrapLon(lon float64) float64 {
	for lon > 180 {
		lon -= 360
	}
	for lon < -180 {
		lon += 360
	}
	return lon
}
