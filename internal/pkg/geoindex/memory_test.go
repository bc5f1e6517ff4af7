package geoindex

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prasetya/ridelink/internal/pkg/errs"
)

// Points around lower Manhattan; distances to the origin grow with the index.
var (
	originLat = 40.7128
	originLon = -74.0060
)

func seedIndex(t *testing.T, idx *MemoryIndex) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, idx.Upsert(ctx, "driver-near", 40.7138, -74.0070))   // ~0.14 km
	require.NoError(t, idx.Upsert(ctx, "driver-mid", 40.7328, -74.0060))    // ~2.2 km
	require.NoError(t, idx.Upsert(ctx, "driver-far", 40.7528, -74.0060))    // ~4.4 km
	require.NoError(t, idx.Upsert(ctx, "driver-outside", 40.9128, -74.0060)) // ~22 km
}

func TestMemoryIndex_NearbySortedWithinRadius(t *testing.T) {
	idx := NewMemoryIndex(0)
	seedIndex(t, idx)

	got, err := idx.Nearby(context.Background(), originLat, originLon, 5, 10)
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, "driver-near", got[0].DriverID)
	assert.Equal(t, "driver-mid", got[1].DriverID)
	assert.Equal(t, "driver-far", got[2].DriverID)
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].DistanceKm, got[i].DistanceKm)
	}
	for _, c := range got {
		assert.LessOrEqual(t, c.DistanceKm, 5.0)
	}
}

func TestMemoryIndex_MaxResultsLimit(t *testing.T) {
	idx := NewMemoryIndex(0)
	seedIndex(t, idx)

	got, err := idx.Nearby(context.Background(), originLat, originLon, 5, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "driver-near", got[0].DriverID)
	assert.Equal(t, "driver-mid", got[1].DriverID)
}

func TestMemoryIndex_TieBreakByDriverID(t *testing.T) {
	idx := NewMemoryIndex(0)
	ctx := context.Background()
	// Identical positions, identical distances.
	require.NoError(t, idx.Upsert(ctx, "driver-b", 40.7138, -74.0070))
	require.NoError(t, idx.Upsert(ctx, "driver-a", 40.7138, -74.0070))

	got, err := idx.Nearby(ctx, originLat, originLon, 5, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "driver-a", got[0].DriverID)
	assert.Equal(t, "driver-b", got[1].DriverID)
}

func TestMemoryIndex_ClampsRadiusAndMax(t *testing.T) {
	idx := NewMemoryIndex(0)
	seedIndex(t, idx)
	ctx := context.Background()

	// Zero radius falls back to the 5 km default.
	got, err := idx.Nearby(ctx, originLat, originLon, 0, 10)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	// max below 1 still returns one result.
	got, err = idx.Nearby(ctx, originLat, originLon, 5, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "driver-near", got[0].DriverID)
}

func TestMemoryIndex_EmptyWhenNoneInRadius(t *testing.T) {
	idx := NewMemoryIndex(0)
	require.NoError(t, idx.Upsert(context.Background(), "driver-outside", 40.9128, -74.0060))

	got, err := idx.Nearby(context.Background(), originLat, originLon, 5, 10)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestMemoryIndex_UpsertMovesDriver(t *testing.T) {
	idx := NewMemoryIndex(0)
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, "driver-1", 40.9128, -74.0060)) // out of range
	got, err := idx.Nearby(ctx, originLat, originLon, 5, 10)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, idx.Upsert(ctx, "driver-1", 40.7138, -74.0070)) // moved close
	got, err = idx.Nearby(ctx, originLat, originLon, 5, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "driver-1", got[0].DriverID)
	assert.Equal(t, 1, idx.Len())
}

func TestMemoryIndex_Remove(t *testing.T) {
	idx := NewMemoryIndex(0)
	ctx := context.Background()
	require.NoError(t, idx.Upsert(ctx, "driver-1", 40.7138, -74.0070))
	require.NoError(t, idx.Remove(ctx, "driver-1"))
	require.NoError(t, idx.Remove(ctx, "driver-unknown"))

	got, err := idx.Nearby(ctx, originLat, originLon, 5, 10)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 0, idx.Len())
}

func TestMemoryIndex_StaleEntriesSkippedAndReaped(t *testing.T) {
	idx := NewMemoryIndex(30 * time.Second)
	current := time.Now()
	idx.now = func() time.Time { return current }
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, "driver-stale", 40.7138, -74.0070))

	current = current.Add(time.Minute)
	require.NoError(t, idx.Upsert(ctx, "driver-fresh", 40.7148, -74.0070))

	got, err := idx.Nearby(ctx, originLat, originLon, 5, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "driver-fresh", got[0].DriverID)

	// Stale entry was reaped, not just hidden.
	assert.Equal(t, 1, idx.Len())
}

func TestMemoryIndex_RejectsInvalidCoordinates(t *testing.T) {
	idx := NewMemoryIndex(0)
	ctx := context.Background()

	err := idx.Upsert(ctx, "driver-1", 91, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrInvalidCoordinate))

	_, err = idx.Nearby(ctx, 0, 181, 5, 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrInvalidCoordinate))
}
