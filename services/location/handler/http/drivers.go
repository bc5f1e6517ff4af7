package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/prasetya/ridelink/internal/pkg/errs"
	"github.com/prasetya/ridelink/internal/pkg/models"
	"github.com/prasetya/ridelink/internal/utils"
	"github.com/prasetya/ridelink/services/location"
)

// DriverHandler serves driver location endpoints
type DriverHandler struct {
	locationUC location.LocationUC
}

// NewDriverHandler creates a new driver handler
func NewDriverHandler(locationUC location.LocationUC) *DriverHandler {
	return &DriverHandler{locationUC: locationUC}
}

// Heartbeat handles PUT /v1/drivers/:id/location
func (h *DriverHandler) Heartbeat(c echo.Context) error {
	driverID := c.Param("id")
	if driverID == "" {
		return utils.BadRequestResponse(c, "Driver ID is required")
	}

	var update models.DriverLocationEvent
	if err := c.Bind(&update); err != nil {
		return utils.BadRequestResponse(c, "Invalid request format")
	}
	update.DriverID = driverID

	if err := h.locationUC.Heartbeat(c.Request().Context(), update); err != nil {
		if errors.Is(err, errs.ErrInvalidInput) || errors.Is(err, errs.ErrInvalidCoordinate) {
			return utils.BadRequestResponse(c, err.Error())
		}
		return utils.InternalServerErrorResponse(c, "Failed to record heartbeat")
	}

	return utils.SuccessResponse(c, http.StatusOK, "Location recorded", map[string]string{
		"driver_id": driverID,
	})
}

// SetOffline handles DELETE /v1/drivers/:id/location
func (h *DriverHandler) SetOffline(c echo.Context) error {
	driverID := c.Param("id")
	if driverID == "" {
		return utils.BadRequestResponse(c, "Driver ID is required")
	}

	if err := h.locationUC.SetOffline(c.Request().Context(), driverID); err != nil {
		if errors.Is(err, errs.ErrInvalidInput) {
			return utils.BadRequestResponse(c, err.Error())
		}
		return utils.InternalServerErrorResponse(c, "Failed to set driver offline")
	}

	return utils.SuccessResponse(c, http.StatusOK, "Driver set offline", map[string]string{
		"driver_id": driverID,
	})
}

// Nearby handles GET /v1/drivers/nearby
func (h *DriverHandler) Nearby(c echo.Context) error {
	lat, err := strconv.ParseFloat(c.QueryParam("latitude"), 64)
	if err != nil {
		return utils.BadRequestResponse(c, "latitude is required")
	}
	lon, err := strconv.ParseFloat(c.QueryParam("longitude"), 64)
	if err != nil {
		return utils.BadRequestResponse(c, "longitude is required")
	}

	radiusKm := 0.0
	if raw := c.QueryParam("radius_km"); raw != "" {
		if radiusKm, err = strconv.ParseFloat(raw, 64); err != nil {
			return utils.BadRequestResponse(c, "radius_km must be a number")
		}
	}
	max := 10
	if raw := c.QueryParam("max"); raw != "" {
		if max, err = strconv.Atoi(raw); err != nil {
			return utils.BadRequestResponse(c, "max must be an integer")
		}
	}

	candidates, err := h.locationUC.NearbyDrivers(c.Request().Context(), lat, lon, radiusKm, max)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidCoordinate) {
			return utils.BadRequestResponse(c, err.Error())
		}
		return utils.InternalServerErrorResponse(c, "Failed to query nearby drivers")
	}

	return utils.SuccessResponse(c, http.StatusOK, "Nearby drivers retrieved", candidates)
}
