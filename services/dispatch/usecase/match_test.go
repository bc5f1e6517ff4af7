package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prasetya/ridelink/internal/pkg/constants"
	"github.com/prasetya/ridelink/internal/pkg/models"
)

func locationEvent(driverID, lat, lon, online string) models.Event {
	return models.NewEvent(constants.EventDriverLocation, driverID, driverID, map[string]string{
		constants.MetaDriverID:  driverID,
		constants.MetaLatitude:  lat,
		constants.MetaLongitude: lon,
		constants.MetaOnline:    online,
	})
}

func TestHandleDriverLocation_UpdatesIndex(t *testing.T) {
	uc, _, _, index := newDispatchUC(t)
	ctx := context.Background()

	require.NoError(t, uc.HandleDriverLocation(ctx, locationEvent("driver-1", "40.7148", "-74.0070", "true")))
	assert.Equal(t, 1, index.Len())

	got, err := index.Nearby(ctx, 40.7138, -74.0070, 5, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "driver-1", got[0].DriverID)
}

func TestHandleDriverLocation_OfflineRemoves(t *testing.T) {
	uc, _, _, index := newDispatchUC(t)
	ctx := context.Background()

	require.NoError(t, uc.HandleDriverLocation(ctx, locationEvent("driver-1", "40.7148", "-74.0070", "true")))
	require.NoError(t, uc.HandleDriverLocation(ctx, locationEvent("driver-1", "", "", "false")))
	assert.Equal(t, 0, index.Len())
}

func TestHandleDriverLocation_MalformedEventsAreSkipped(t *testing.T) {
	uc, _, _, index := newDispatchUC(t)
	ctx := context.Background()

	// Skipped events must not error, or the consumer would redeliver them
	// forever.
	assert.NoError(t, uc.HandleDriverLocation(ctx, locationEvent("", "40.7", "-74.0", "true")))
	assert.NoError(t, uc.HandleDriverLocation(ctx, locationEvent("driver-1", "not-a-number", "-74.0", "true")))
	assert.NoError(t, uc.HandleDriverLocation(ctx, locationEvent("driver-1", "40.7", "-74.0", "maybe")))
	assert.NoError(t, uc.HandleDriverLocation(ctx, locationEvent("driver-1", "95", "-74.0", "true")))
	assert.Equal(t, 0, index.Len())
}
