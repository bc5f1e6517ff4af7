package payment

import (
	"context"

	"github.com/prasetya/ridelink/internal/pkg/models"
)

// PaymentUC defines the interface for payment business logic
type PaymentUC interface {
	// HandleRideCompleted charges the fare of a completed ride. Redelivered
	// events are idempotent: at most one payment row exists per ride.
	HandleRideCompleted(ctx context.Context, ev models.Event) error

	GetPaymentByRide(ctx context.Context, rideID string) (*models.Payment, error)
}

// Processor executes a charge against a payment provider.
type Processor interface {
	Charge(ctx context.Context, rideID string, amount float64, currency, paymentMethod string) (models.ChargeResult, error)
}
