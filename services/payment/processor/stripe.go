package processor

import (
	"context"
	"fmt"
	"math"
	"strings"

	stripe "github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"

	"github.com/prasetya/ridelink/internal/pkg/logger"
	"github.com/prasetya/ridelink/internal/pkg/models"
)

// StripeProcessor charges fares through Stripe PaymentIntents.
type StripeProcessor struct{}

// NewStripeProcessor sets the global stripe key and returns the processor.
func NewStripeProcessor(apiKey string) *StripeProcessor {
	stripe.Key = apiKey
	return &StripeProcessor{}
}

// Charge creates and confirms a PaymentIntent for the fare. A card decline
// is a terminal failed result, not an error; errors are reserved for calls
// that never reached a decision.
func (p *StripeProcessor) Charge(ctx context.Context, rideID string, amount float64, currency, paymentMethod string) (models.ChargeResult, error) {
	params := &stripe.PaymentIntentParams{
		Params:   stripe.Params{Context: ctx},
		Amount:   stripe.Int64(int64(math.Round(amount * 100))),
		Currency: stripe.String(strings.ToLower(currency)),
		Confirm:  stripe.Bool(true),
	}
	if paymentMethod != "" {
		params.PaymentMethod = stripe.String(paymentMethod)
	}
	params.AddMetadata("ride_id", rideID)

	pi, err := paymentintent.New(params)
	if err != nil {
		if stripeErr, ok := err.(*stripe.Error); ok && stripeErr.Type == stripe.ErrorTypeCard {
			logger.Warn("stripe charge declined",
				logger.String("ride_id", rideID),
				logger.String("decline_code", string(stripeErr.DeclineCode)))
			return models.ChargeResult{Status: models.PaymentStatusFailed}, nil
		}
		return models.ChargeResult{}, fmt.Errorf("stripe payment intent: %w", err)
	}

	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return models.ChargeResult{Status: models.PaymentStatusFailed, TransactionRef: pi.ID}, nil
	}
	return models.ChargeResult{Status: models.PaymentStatusSucceeded, TransactionRef: pi.ID}, nil
}
