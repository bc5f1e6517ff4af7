package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/prasetya/ridelink/services/pricing"
	httpHandler "github.com/prasetya/ridelink/services/pricing/handler/http"
)

// Handler combines all handlers for the pricing service
type Handler struct {
	quoteHTTP *httpHandler.QuoteHandler
}

// NewHandler creates a new combined handler
func NewHandler(pricingUC pricing.PricingUC) *Handler {
	return &Handler{quoteHTTP: httpHandler.NewQuoteHandler(pricingUC)}
}

// RegisterRoutes registers all HTTP routes
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	v1 := e.Group("/v1")
	v1.POST("/quotes", h.quoteHTTP.CreateQuote)
}
