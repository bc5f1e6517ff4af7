package payment

import (
	"context"

	"github.com/prasetya/ridelink/internal/pkg/models"
)

// PaymentGW defines the payment gateway interface
type PaymentGW interface {
	PublishPaymentProcessed(ctx context.Context, payment *models.Payment) error
}
