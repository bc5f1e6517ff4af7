package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prasetya/ridelink/internal/pkg/errs"
	"github.com/prasetya/ridelink/internal/pkg/models"
	"github.com/prasetya/ridelink/services/dispatch/mocks"
)

func newRideHandler(t *testing.T) (*RideHandler, *mocks.MockDispatchUC) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockUC := mocks.NewMockDispatchUC(ctrl)
	return NewRideHandler(mockUC), mockUC
}

func newRideContext(t *testing.T, method, path string, body interface{}, rideID string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	e := echo.New()
	request := httptest.NewRequest(method, path, &buf)
	request.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	recorder := httptest.NewRecorder()
	c := e.NewContext(request, recorder)
	if rideID != "" {
		c.SetParamNames("id")
		c.SetParamValues(rideID)
	}
	return c, recorder
}

func TestCreateRide_Created(t *testing.T) {
	handler, mockUC := newRideHandler(t)

	driverID := "driver-1"
	assigned := &models.Ride{
		ID:       uuid.New(),
		RiderID:  "rider-1",
		DriverID: &driverID,
		Status:   models.RideStatusAssigned,
	}
	mockUC.EXPECT().CreateRide(gomock.Any(), gomock.Any()).Return(assigned, nil)

	c, recorder := newRideContext(t, http.MethodPost, "/v1/rides", models.RideRequest{
		RiderID:          "rider-1",
		PickupLatitude:   40.7138,
		PickupLongitude:  -74.0070,
		DropoffLatitude:  40.7589,
		DropoffLongitude: -73.9851,
	}, "")

	require.NoError(t, handler.CreateRide(c))
	assert.Equal(t, http.StatusCreated, recorder.Code)
}

func TestCreateRide_InvalidCoordinateIsBadRequest(t *testing.T) {
	handler, mockUC := newRideHandler(t)

	mockUC.EXPECT().CreateRide(gomock.Any(), gomock.Any()).
		Return(nil, errs.ErrInvalidCoordinate)

	c, recorder := newRideContext(t, http.MethodPost, "/v1/rides", models.RideRequest{
		RiderID:        "rider-1",
		PickupLatitude: 91,
	}, "")

	require.NoError(t, handler.CreateRide(c))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestGetRide_NotFound(t *testing.T) {
	handler, mockUC := newRideHandler(t)
	rideID := uuid.NewString()

	mockUC.EXPECT().GetRide(gomock.Any(), rideID).Return(nil, errs.ErrNotFound)

	c, recorder := newRideContext(t, http.MethodGet, "/v1/rides/"+rideID, nil, rideID)

	require.NoError(t, handler.GetRide(c))
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestStartRide_ClosedRideIsConflict(t *testing.T) {
	handler, mockUC := newRideHandler(t)
	rideID := uuid.NewString()

	mockUC.EXPECT().StartRide(gomock.Any(), rideID).Return(nil, errs.ErrRideClosed)

	c, recorder := newRideContext(t, http.MethodPost, "/v1/rides/"+rideID+"/start", nil, rideID)

	require.NoError(t, handler.StartRide(c))
	assert.Equal(t, http.StatusConflict, recorder.Code)
}

func TestCompleteRide_PassesDropoff(t *testing.T) {
	handler, mockUC := newRideHandler(t)
	rideID := uuid.NewString()
	dropoff := models.Coordinate{Latitude: 40.7600, Longitude: -73.9800}

	mockUC.EXPECT().CompleteRide(gomock.Any(), rideID, &dropoff).
		Return(&models.Ride{Status: models.RideStatusCompleted}, nil)

	c, recorder := newRideContext(t, http.MethodPost, "/v1/rides/"+rideID+"/complete",
		map[string]interface{}{"dropoff": dropoff}, rideID)

	require.NoError(t, handler.CompleteRide(c))
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestCancelRide_UnexpectedErrorIsInternal(t *testing.T) {
	handler, mockUC := newRideHandler(t)
	rideID := uuid.NewString()

	mockUC.EXPECT().CancelRide(gomock.Any(), rideID, "").
		Return(nil, errors.New("connection reset"))

	c, recorder := newRideContext(t, http.MethodPost, "/v1/rides/"+rideID+"/cancel", nil, rideID)

	require.NoError(t, handler.CancelRide(c))
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}
