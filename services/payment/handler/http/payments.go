package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/prasetya/ridelink/internal/pkg/errs"
	"github.com/prasetya/ridelink/internal/utils"
	"github.com/prasetya/ridelink/services/payment"
)

// PaymentHandler serves the payment query endpoints
type PaymentHandler struct {
	paymentUC payment.PaymentUC
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentUC payment.PaymentUC) *PaymentHandler {
	return &PaymentHandler{paymentUC: paymentUC}
}

// GetPaymentByRide handles GET /v1/payments/:ride_id
func (h *PaymentHandler) GetPaymentByRide(c echo.Context) error {
	pmt, err := h.paymentUC.GetPaymentByRide(c.Request().Context(), c.Param("ride_id"))
	if err != nil {
		if errors.Is(err, errs.ErrInvalidInput) {
			return utils.BadRequestResponse(c, err.Error())
		}
		if errors.Is(err, errs.ErrNotFound) {
			return utils.NotFoundResponse(c, err.Error())
		}
		return utils.InternalServerErrorResponse(c, "Failed to get payment")
	}
	return utils.SuccessResponse(c, http.StatusOK, "Payment retrieved", pmt)
}
