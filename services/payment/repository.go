package payment

import (
	"context"

	"github.com/prasetya/ridelink/internal/pkg/models"
)

// PaymentRepo defines the interface for payment persistence
type PaymentRepo interface {
	// CreatePayment inserts a payment row unless one already exists for the
	// ride; false means the ride was already settled.
	CreatePayment(ctx context.Context, payment *models.Payment) (bool, error)

	GetPaymentByRide(ctx context.Context, rideID string) (*models.Payment, error)
}
