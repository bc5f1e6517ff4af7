package usecase

import (
	"context"
	"time"

	"github.com/prasetya/ridelink/internal/pkg/models"
	"github.com/prasetya/ridelink/services/pricing/fare"
)

// PricingUC implements the pricing use case interface
type PricingUC struct {
	calc *fare.Calculator
}

// NewPricingUC creates a new pricing use case
func NewPricingUC(calc *fare.Calculator) *PricingUC {
	return &PricingUC{calc: calc}
}

// Quote prices the requested trip. When the request carries no pickup time
// the quote is computed for the current moment.
func (uc *PricingUC) Quote(ctx context.Context, req models.QuoteRequest) (models.Fare, error) {
	at := time.Now().UTC()
	if req.RequestedAt != nil {
		at = req.RequestedAt.UTC()
	}
	return uc.calc.Quote(req.Pickup, req.Dropoff, at)
}
