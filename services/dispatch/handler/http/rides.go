package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/prasetya/ridelink/internal/pkg/errs"
	"github.com/prasetya/ridelink/internal/pkg/models"
	"github.com/prasetya/ridelink/internal/utils"
	"github.com/prasetya/ridelink/services/dispatch"
)

// RideHandler serves the ride lifecycle endpoints
type RideHandler struct {
	dispatchUC dispatch.DispatchUC
}

// NewRideHandler creates a new ride handler
func NewRideHandler(dispatchUC dispatch.DispatchUC) *RideHandler {
	return &RideHandler{dispatchUC: dispatchUC}
}

// CreateRide handles POST /v1/rides. The response carries the outcome of
// the matching window: an assigned ride or one cancelled for lack of
// drivers.
func (h *RideHandler) CreateRide(c echo.Context) error {
	var req models.RideRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request format")
	}

	ride, err := h.dispatchUC.CreateRide(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidInput) || errors.Is(err, errs.ErrInvalidCoordinate) {
			return utils.BadRequestResponse(c, err.Error())
		}
		return utils.InternalServerErrorResponse(c, "Failed to create ride")
	}

	return utils.SuccessResponse(c, http.StatusCreated, "Ride created", ride)
}

// GetRide handles GET /v1/rides/:id
func (h *RideHandler) GetRide(c echo.Context) error {
	ride, err := h.dispatchUC.GetRide(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return utils.NotFoundResponse(c, err.Error())
		}
		return utils.InternalServerErrorResponse(c, "Failed to load ride")
	}
	return utils.SuccessResponse(c, http.StatusOK, "Ride retrieved", ride)
}

// StartRide handles POST /v1/rides/:id/start
func (h *RideHandler) StartRide(c echo.Context) error {
	ride, err := h.dispatchUC.StartRide(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.transitionError(c, err, "Failed to start ride")
	}
	return utils.SuccessResponse(c, http.StatusOK, "Ride started", ride)
}

// CompleteRide handles POST /v1/rides/:id/complete. The optional body may
// carry the actual dropoff point.
func (h *RideHandler) CompleteRide(c echo.Context) error {
	var body struct {
		Dropoff *models.Coordinate `json:"dropoff"`
	}
	if err := c.Bind(&body); err != nil {
		return utils.BadRequestResponse(c, "Invalid request format")
	}

	ride, err := h.dispatchUC.CompleteRide(c.Request().Context(), c.Param("id"), body.Dropoff)
	if err != nil {
		return h.transitionError(c, err, "Failed to complete ride")
	}
	return utils.SuccessResponse(c, http.StatusOK, "Ride completed", ride)
}

// CancelRide handles POST /v1/rides/:id/cancel
func (h *RideHandler) CancelRide(c echo.Context) error {
	var body struct {
		Reason string `json:"reason"`
	}
	if err := c.Bind(&body); err != nil {
		return utils.BadRequestResponse(c, "Invalid request format")
	}

	ride, err := h.dispatchUC.CancelRide(c.Request().Context(), c.Param("id"), body.Reason)
	if err != nil {
		return h.transitionError(c, err, "Failed to cancel ride")
	}
	return utils.SuccessResponse(c, http.StatusOK, "Ride cancelled", ride)
}

func (h *RideHandler) transitionError(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return utils.NotFoundResponse(c, err.Error())
	case errors.Is(err, errs.ErrRideClosed), errors.Is(err, errs.ErrInvalidTransition):
		return utils.ConflictResponse(c, err.Error())
	case errors.Is(err, errs.ErrInvalidInput), errors.Is(err, errs.ErrInvalidCoordinate):
		return utils.BadRequestResponse(c, err.Error())
	default:
		return utils.InternalServerErrorResponse(c, fallback)
	}
}
