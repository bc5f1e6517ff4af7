package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prasetya/ridelink/internal/pkg/errs"
	"github.com/prasetya/ridelink/internal/pkg/geoindex"
	"github.com/prasetya/ridelink/internal/pkg/models"
	"github.com/prasetya/ridelink/services/dispatch/mocks"
	"github.com/prasetya/ridelink/services/pricing/fare"
)

var testRequest = models.RideRequest{
	RiderID:          "rider-1",
	PickupLatitude:   40.7138,
	PickupLongitude:  -74.0070,
	DropoffLatitude:  40.7589,
	DropoffLongitude: -73.9851,
}

func testConfig() models.DispatchConfig {
	return models.DispatchConfig{
		SearchRadiusKm:    5,
		MaxCandidates:     3,
		MatchAttempts:     2,
		MatchBackoff:      time.Millisecond,
		RefareThresholdKm: 0.05,
	}
}

func newDispatchUC(t *testing.T) (*DispatchUC, *mocks.MockRideRepo, *mocks.MockDispatchGW, *geoindex.MemoryIndex) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	repo := mocks.NewMockRideRepo(ctrl)
	gw := mocks.NewMockDispatchGW(ctrl)
	index := geoindex.NewMemoryIndex(0)
	calc := fare.NewCalculator(fare.DefaultTariff(), fare.DefaultSurgeSchedule())
	uc := NewDispatchUC(testConfig(), repo, gw, index, calc)
	return uc, repo, gw, index
}

func TestCreateRide_AssignsNearestDriver(t *testing.T) {
	uc, repo, gw, index := newDispatchUC(t)
	ctx := context.Background()

	require.NoError(t, index.Upsert(ctx, "driver-far", 40.7528, -74.0060))
	require.NoError(t, index.Upsert(ctx, "driver-near", 40.7148, -74.0070))

	repo.EXPECT().CreateRide(gomock.Any(), gomock.Any()).Return(nil)
	repo.EXPECT().AssignDriver(gomock.Any(), gomock.Any(), "driver-near").Return(true, nil)
	gw.EXPECT().PublishRideCreated(gomock.Any(), gomock.Any()).Return(nil)
	gw.EXPECT().
		PublishRideAssigned(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, ride *models.Ride) error {
			require.NotNil(t, ride.DriverID)
			assert.Equal(t, "driver-near", *ride.DriverID)
			return nil
		})

	ride, err := uc.CreateRide(ctx, testRequest)
	require.NoError(t, err)

	assert.Equal(t, models.RideStatusAssigned, ride.Status)
	require.NotNil(t, ride.DriverID)
	assert.Equal(t, "driver-near", *ride.DriverID)
	assert.Greater(t, ride.Fare.Total, 0.0)
}

func TestCreateRide_NoDriversCancelsWithReason(t *testing.T) {
	uc, repo, gw, _ := newDispatchUC(t)
	ctx := context.Background()

	repo.EXPECT().CreateRide(gomock.Any(), gomock.Any()).Return(nil)
	repo.EXPECT().
		Cancel(gomock.Any(), gomock.Any(), models.CancelReasonNoDrivers).
		Return(true, nil)
	gw.EXPECT().PublishRideCreated(gomock.Any(), gomock.Any()).Return(nil)
	// PublishRideAssigned must never fire; gomock fails on unexpected calls.
	gw.EXPECT().
		PublishRideCancelled(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, ride *models.Ride) error {
			assert.Equal(t, models.CancelReasonNoDrivers, ride.CancelReason)
			return nil
		})

	ride, err := uc.CreateRide(ctx, testRequest)
	require.NoError(t, err)

	assert.Equal(t, models.RideStatusCancelled, ride.Status)
	assert.Equal(t, models.CancelReasonNoDrivers, ride.CancelReason)
	assert.Nil(t, ride.DriverID)
}

func TestMatchDriver_ExhaustedWindowReportsNoDrivers(t *testing.T) {
	uc, _, _, _ := newDispatchUC(t)

	ride := &models.Ride{
		ID:      uuid.New(),
		RiderID: "rider-1",
		Pickup:  models.Coordinate{Latitude: 40.7138, Longitude: -74.0070},
		Status:  models.RideStatusRequested,
	}

	_, err := uc.matchDriver(context.Background(), ride)
	assert.ErrorIs(t, err, errs.ErrNoDriversAvailable)
}

func TestCreateRide_RetriesUntilDriverAppears(t *testing.T) {
	uc, repo, gw, index := newDispatchUC(t)
	ctx := context.Background()

	// The first search sees an empty index; a driver shows up before the
	// second attempt.
	repo.EXPECT().CreateRide(gomock.Any(), gomock.Any()).Return(nil)
	gw.EXPECT().PublishRideCreated(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, *models.Ride) error {
			go func() {
				time.Sleep(500 * time.Microsecond)
				_ = index.Upsert(context.Background(), "driver-late", 40.7148, -74.0070)
			}()
			return nil
		})
	repo.EXPECT().AssignDriver(gomock.Any(), gomock.Any(), "driver-late").Return(true, nil)
	gw.EXPECT().PublishRideAssigned(gomock.Any(), gomock.Any()).Return(nil)

	uc.cfg.MatchBackoff = 10 * time.Millisecond
	uc.cfg.MatchAttempts = 5

	ride, err := uc.CreateRide(ctx, testRequest)
	require.NoError(t, err)
	assert.Equal(t, models.RideStatusAssigned, ride.Status)
}

func TestCreateRide_CancelledDuringSearchIsNotAssigned(t *testing.T) {
	uc, repo, gw, index := newDispatchUC(t)
	ctx := context.Background()

	require.NoError(t, index.Upsert(ctx, "driver-1", 40.7148, -74.0070))

	cancelled := &models.Ride{
		ID:           uuid.New(),
		RiderID:      "rider-1",
		Status:       models.RideStatusCancelled,
		CancelReason: "cancelled_by_rider",
	}

	repo.EXPECT().CreateRide(gomock.Any(), gomock.Any()).Return(nil)
	gw.EXPECT().PublishRideCreated(gomock.Any(), gomock.Any()).Return(nil)
	// Conditional assign refused: the ride left the requested state.
	repo.EXPECT().AssignDriver(gomock.Any(), gomock.Any(), "driver-1").Return(false, nil)
	repo.EXPECT().GetRide(gomock.Any(), gomock.Any()).Return(cancelled, nil)

	ride, err := uc.CreateRide(ctx, testRequest)
	require.NoError(t, err)
	assert.Equal(t, models.RideStatusCancelled, ride.Status)
}

func TestCreateRide_PublishFailureDoesNotFailAssignment(t *testing.T) {
	uc, repo, gw, index := newDispatchUC(t)
	ctx := context.Background()

	require.NoError(t, index.Upsert(ctx, "driver-1", 40.7148, -74.0070))

	repo.EXPECT().CreateRide(gomock.Any(), gomock.Any()).Return(nil)
	repo.EXPECT().AssignDriver(gomock.Any(), gomock.Any(), "driver-1").Return(true, nil)
	gw.EXPECT().PublishRideCreated(gomock.Any(), gomock.Any()).Return(errors.New("publish exhausted"))
	gw.EXPECT().PublishRideAssigned(gomock.Any(), gomock.Any()).Return(errors.New("publish exhausted"))

	ride, err := uc.CreateRide(ctx, testRequest)
	require.NoError(t, err)
	assert.Equal(t, models.RideStatusAssigned, ride.Status)
}

func TestCreateRide_RejectsInvalidInput(t *testing.T) {
	uc, _, _, _ := newDispatchUC(t)
	ctx := context.Background()

	_, err := uc.CreateRide(ctx, models.RideRequest{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrInvalidInput))

	bad := testRequest
	bad.PickupLatitude = 91
	_, err = uc.CreateRide(ctx, bad)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrInvalidInput))
}

func TestStartRide(t *testing.T) {
	uc, repo, gw, _ := newDispatchUC(t)
	ctx := context.Background()
	rideID := uuid.New()

	repo.EXPECT().
		TransitionStatus(gomock.Any(), rideID.String(), models.RideStatusAssigned, models.RideStatusInProgress).
		Return(true, nil)
	repo.EXPECT().GetRide(gomock.Any(), rideID.String()).
		Return(&models.Ride{ID: rideID, Status: models.RideStatusInProgress}, nil)
	gw.EXPECT().PublishRideStarted(gomock.Any(), gomock.Any()).Return(nil)

	ride, err := uc.StartRide(ctx, rideID.String())
	require.NoError(t, err)
	assert.Equal(t, models.RideStatusInProgress, ride.Status)
}

func TestStartRide_RefusedTransitions(t *testing.T) {
	tests := []struct {
		name    string
		current models.RideStatus
		want    error
	}{
		{"from requested", models.RideStatusRequested, errs.ErrInvalidTransition},
		{"from completed", models.RideStatusCompleted, errs.ErrRideClosed},
		{"from cancelled", models.RideStatusCancelled, errs.ErrRideClosed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, repo, _, _ := newDispatchUC(t)
			rideID := uuid.New()

			repo.EXPECT().
				TransitionStatus(gomock.Any(), rideID.String(), models.RideStatusAssigned, models.RideStatusInProgress).
				Return(false, nil)
			repo.EXPECT().GetRide(gomock.Any(), rideID.String()).
				Return(&models.Ride{ID: rideID, Status: tt.current}, nil)

			_, err := uc.StartRide(context.Background(), rideID.String())
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want))
		})
	}
}

func TestCompleteRide_SameDropoffKeepsFare(t *testing.T) {
	uc, repo, gw, _ := newDispatchUC(t)
	ctx := context.Background()
	rideID := uuid.New()

	stored := &models.Ride{
		ID:      rideID,
		Status:  models.RideStatusCompleted,
		Pickup:  models.Coordinate{Latitude: 40.7138, Longitude: -74.0070},
		Dropoff: models.Coordinate{Latitude: 40.7589, Longitude: -73.9851},
		Fare:    models.Fare{Total: 15.00, Currency: "USD"},
	}
	repo.EXPECT().
		TransitionStatus(gomock.Any(), rideID.String(), models.RideStatusInProgress, models.RideStatusCompleted).
		Return(true, nil)
	repo.EXPECT().GetRide(gomock.Any(), rideID.String()).Return(stored, nil)
	gw.EXPECT().PublishRideCompleted(gomock.Any(), gomock.Any()).Return(nil)

	// Actual dropoff within the threshold of the quoted one.
	actual := models.Coordinate{Latitude: 40.75892, Longitude: -73.98512}
	ride, err := uc.CompleteRide(ctx, rideID.String(), &actual)
	require.NoError(t, err)
	assert.Equal(t, 15.00, ride.Fare.Total)
}

func TestCompleteRide_DeviatingDropoffRecomputesFare(t *testing.T) {
	uc, repo, gw, _ := newDispatchUC(t)
	ctx := context.Background()
	rideID := uuid.New()
	requestedAt := time.Date(2025, 3, 12, 14, 0, 0, 0, time.UTC)

	stored := &models.Ride{
		ID:          rideID,
		Status:      models.RideStatusCompleted,
		Pickup:      models.Coordinate{Latitude: 40.7138, Longitude: -74.0070},
		Dropoff:     models.Coordinate{Latitude: 40.7589, Longitude: -73.9851},
		RequestedAt: requestedAt,
		Fare:        models.Fare{Total: 15.00, Currency: "USD"},
	}
	repo.EXPECT().
		TransitionStatus(gomock.Any(), rideID.String(), models.RideStatusInProgress, models.RideStatusCompleted).
		Return(true, nil)
	repo.EXPECT().GetRide(gomock.Any(), rideID.String()).Return(stored, nil)
	repo.EXPECT().UpdateFare(gomock.Any(), rideID.String(), gomock.Any()).Return(nil)
	gw.EXPECT().PublishRideCompleted(gomock.Any(), gomock.Any()).Return(nil)

	// Roughly two kilometers past the quoted dropoff.
	actual := models.Coordinate{Latitude: 40.7789, Longitude: -73.9851}
	ride, err := uc.CompleteRide(ctx, rideID.String(), &actual)
	require.NoError(t, err)

	assert.Equal(t, actual, ride.Dropoff)
	assert.Greater(t, ride.Fare.Total, 15.00)
	// Off-peak request time keeps the recomputed surge at 1.0.
	assert.Equal(t, 1.0, ride.Fare.SurgeFactor)
}

func TestCancelRide(t *testing.T) {
	uc, repo, gw, _ := newDispatchUC(t)
	ctx := context.Background()
	rideID := uuid.New()

	repo.EXPECT().Cancel(gomock.Any(), rideID.String(), "changed_mind").Return(true, nil)
	repo.EXPECT().GetRide(gomock.Any(), rideID.String()).
		Return(&models.Ride{ID: rideID, Status: models.RideStatusCancelled, CancelReason: "changed_mind"}, nil)
	gw.EXPECT().PublishRideCancelled(gomock.Any(), gomock.Any()).Return(nil)

	ride, err := uc.CancelRide(ctx, rideID.String(), "changed_mind")
	require.NoError(t, err)
	assert.Equal(t, models.RideStatusCancelled, ride.Status)
}

func TestCancelRide_TerminalRideRefused(t *testing.T) {
	uc, repo, _, _ := newDispatchUC(t)
	rideID := uuid.New()

	repo.EXPECT().Cancel(gomock.Any(), rideID.String(), gomock.Any()).Return(false, nil)
	repo.EXPECT().GetRide(gomock.Any(), rideID.String()).
		Return(&models.Ride{ID: rideID, Status: models.RideStatusCompleted}, nil)

	_, err := uc.CancelRide(context.Background(), rideID.String(), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrRideClosed))
}
