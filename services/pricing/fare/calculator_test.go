package fare

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prasetya/ridelink/internal/pkg/errs"
	"github.com/prasetya/ridelink/internal/pkg/models"
)

var (
	downtown = models.Coordinate{Latitude: 40.7138, Longitude: -74.0070}
	midtown  = models.Coordinate{Latitude: 40.7589, Longitude: -73.9851}
)

func offPeak() time.Time {
	return time.Date(2025, 3, 12, 14, 0, 0, 0, time.UTC)
}

func TestCalculator_QuoteOffPeak(t *testing.T) {
	calc := NewCalculator(DefaultTariff(), DefaultSurgeSchedule())

	fare, err := calc.Quote(downtown, midtown, offPeak())
	require.NoError(t, err)

	assert.Equal(t, 1.0, fare.SurgeFactor)
	assert.InDelta(t, 5.4, fare.DistanceKm, 0.3)
	assert.Equal(t, "USD", fare.Currency)

	expected := math.Round((2.50+fare.DistanceKm*1.75+fare.DurationMin*0.30)*100) / 100
	assert.InDelta(t, expected, fare.Total, 0.001)
	assert.GreaterOrEqual(t, fare.Total, 5.00)
}

func TestCalculator_MorningPeakSurge(t *testing.T) {
	calc := NewCalculator(DefaultTariff(), DefaultSurgeSchedule())

	at := time.Date(2025, 3, 12, 8, 0, 0, 0, time.UTC)
	peak, err := calc.Quote(downtown, midtown, at)
	require.NoError(t, err)
	assert.Equal(t, 1.5, peak.SurgeFactor)

	base, err := calc.Quote(downtown, midtown, offPeak())
	require.NoError(t, err)

	expected := math.Round(base.Total/1*1.5*100) / 100
	assert.InDelta(t, expected, peak.Total, 0.02)
}

func TestCalculator_SurgeDependsOnlyOnHour(t *testing.T) {
	schedule := DefaultSurgeSchedule()
	for hour := 0; hour < 24; hour++ {
		a := time.Date(2025, 1, 6, hour, 15, 0, 0, time.UTC) // a Monday
		b := time.Date(2025, 7, 12, hour, 45, 30, 0, time.UTC) // a Saturday
		assert.Equal(t, schedule.Multiplier(a), schedule.Multiplier(b), "hour %d", hour)
	}
}

func TestCalculator_SurgeBands(t *testing.T) {
	schedule := DefaultSurgeSchedule()
	tests := []struct {
		hour int
		want float64
	}{
		{7, 1.5}, {9, 1.5}, {17, 1.5}, {19, 1.5},
		{22, 1.2}, {23, 1.2}, {0, 1.2}, {3, 1.2}, {6, 1.2},
		{10, 1.0}, {14, 1.0}, {16, 1.0}, {20, 1.0}, {21, 1.0},
	}
	for _, tt := range tests {
		at := time.Date(2025, 3, 12, tt.hour, 30, 0, 0, time.UTC)
		assert.Equal(t, tt.want, schedule.Multiplier(at), "hour %d", tt.hour)
	}
}

func TestCalculator_MinimumFareFloor(t *testing.T) {
	calc := NewCalculator(DefaultTariff(), DefaultSurgeSchedule())

	// A trip of a few hundred meters prices below the minimum.
	nearby := models.Coordinate{Latitude: 40.7142, Longitude: -74.0070}
	fare, err := calc.Quote(downtown, nearby, offPeak())
	require.NoError(t, err)
	assert.Equal(t, 5.00, fare.Total)
}

func TestCalculator_FareMonotonicInDistance(t *testing.T) {
	calc := NewCalculator(DefaultTariff(), DefaultSurgeSchedule())
	at := offPeak()

	prev := 0.0
	for _, dropoff := range []models.Coordinate{
		{Latitude: 40.75, Longitude: -74.0060},
		{Latitude: 40.80, Longitude: -74.0060},
		{Latitude: 40.90, Longitude: -74.0060},
		{Latitude: 41.10, Longitude: -74.0060},
	} {
		fare, err := calc.Quote(downtown, dropoff, at)
		require.NoError(t, err)
		assert.Greater(t, fare.Total, prev)
		prev = fare.Total
	}
}

func TestCalculator_Deterministic(t *testing.T) {
	calc := NewCalculator(DefaultTariff(), DefaultSurgeSchedule())
	at := offPeak()

	first, err := calc.Quote(downtown, midtown, at)
	require.NoError(t, err)
	second, err := calc.Quote(downtown, midtown, at)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCalculator_RejectsInvalidInput(t *testing.T) {
	calc := NewCalculator(DefaultTariff(), DefaultSurgeSchedule())
	at := offPeak()

	_, err := calc.Quote(models.Coordinate{Latitude: math.NaN()}, midtown, at)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrInvalidInput))

	_, err = calc.Quote(downtown, models.Coordinate{Latitude: 95, Longitude: 0}, at)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrInvalidInput))
}

func TestRound2_HalfAwayFromZero(t *testing.T) {
	// 2.125 is exact in binary, so the half case is unambiguous.
	assert.Equal(t, 2.13, round2(2.125))
	assert.Equal(t, -2.13, round2(-2.125))
	assert.Equal(t, 1.23, round2(1.234))
	assert.Equal(t, 1.24, round2(1.236))
}
