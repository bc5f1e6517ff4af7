// Package processor holds the payment provider integrations. The mock
// processor is the default in development and CI; the stripe processor is
// selected by config in environments with real credentials.
package processor

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/prasetya/ridelink/internal/pkg/errs"
	"github.com/prasetya/ridelink/internal/pkg/models"
)

// DeclinedPaymentMethod is the magic payment method the mock processor
// always declines, for exercising the failure path end to end.
const DeclinedPaymentMethod = "pm_mock_declined"

// MockProcessor simulates a payment provider without any network calls.
type MockProcessor struct{}

// NewMockProcessor creates the simulated processor
func NewMockProcessor() *MockProcessor {
	return &MockProcessor{}
}

// Charge approves everything except the declined test method. Successful
// charges get a synthetic transaction reference.
func (p *MockProcessor) Charge(ctx context.Context, rideID string, amount float64, currency, paymentMethod string) (models.ChargeResult, error) {
	if amount <= 0 {
		return models.ChargeResult{}, fmt.Errorf("%w: charge amount must be positive", errs.ErrInvalidInput)
	}

	if paymentMethod == DeclinedPaymentMethod {
		return models.ChargeResult{Status: models.PaymentStatusFailed}, nil
	}

	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return models.ChargeResult{}, fmt.Errorf("generate transaction ref: %w", err)
	}
	return models.ChargeResult{
		Status:         models.PaymentStatusSucceeded,
		TransactionRef: "txn_mock_" + hex.EncodeToString(buf),
	}, nil
}
