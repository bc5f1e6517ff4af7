package pricing

import (
	"context"

	"github.com/prasetya/ridelink/internal/pkg/models"
)

// PricingUC defines the interface for fare quoting business logic
type PricingUC interface {
	Quote(ctx context.Context, req models.QuoteRequest) (models.Fare, error)
}
