package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/prasetya/ridelink/internal/pkg/errs"
	"github.com/prasetya/ridelink/internal/pkg/models"
	"github.com/prasetya/ridelink/internal/utils"
	"github.com/prasetya/ridelink/services/pricing"
)

// QuoteHandler serves fare quote requests
type QuoteHandler struct {
	pricingUC pricing.PricingUC
}

// NewQuoteHandler creates a new quote handler
func NewQuoteHandler(pricingUC pricing.PricingUC) *QuoteHandler {
	return &QuoteHandler{pricingUC: pricingUC}
}

// CreateQuote handles POST /v1/quotes
func (h *QuoteHandler) CreateQuote(c echo.Context) error {
	var req models.QuoteRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request format")
	}

	fare, err := h.pricingUC.Quote(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidInput) || errors.Is(err, errs.ErrInvalidCoordinate) {
			return utils.BadRequestResponse(c, err.Error())
		}
		return utils.InternalServerErrorResponse(c, "Failed to compute quote")
	}

	return utils.SuccessResponse(c, http.StatusOK, "Quote computed successfully", fare)
}
