package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/prasetya/ridelink/internal/pkg/constants"
	"github.com/prasetya/ridelink/internal/pkg/errs"
	"github.com/prasetya/ridelink/internal/pkg/logger"
	"github.com/prasetya/ridelink/internal/pkg/models"
	"github.com/prasetya/ridelink/internal/pkg/observability"
	"github.com/prasetya/ridelink/services/payment"
)

// PaymentUC implements the payment usecase
type PaymentUC struct {
	processor   payment.Processor
	paymentRepo payment.PaymentRepo
	paymentGW   payment.PaymentGW
}

// NewPaymentUC creates a new payment usecase
func NewPaymentUC(
	processor payment.Processor,
	paymentRepo payment.PaymentRepo,
	paymentGW payment.PaymentGW,
) *PaymentUC {
	return &PaymentUC{
		processor:   processor,
		paymentRepo: paymentRepo,
		paymentGW:   paymentGW,
	}
}

// HandleRideCompleted settles the fare of a completed ride. The payment row
// is the idempotency record: a ride that already has one is skipped, so
// redelivered events never double-charge.
func (uc *PaymentUC) HandleRideCompleted(ctx context.Context, ev models.Event) error {
	rideID, err := uuid.Parse(ev.RideID)
	if err != nil {
		logger.Warn("Skipping completed-ride event with malformed ride ID",
			logger.String("ride_id", ev.RideID),
			logger.Err(err))
		return nil
	}

	amount, err := strconv.ParseFloat(ev.Metadata[constants.MetaFareTotal], 64)
	if err != nil || amount <= 0 {
		logger.Warn("Skipping completed-ride event with malformed fare",
			logger.String("ride_id", ev.RideID),
			logger.String("fare_total", ev.Metadata[constants.MetaFareTotal]))
		return nil
	}
	currency := strings.ToUpper(ev.Metadata[constants.MetaCurrency])
	if currency == "" {
		currency = "USD"
	}

	if existing, err := uc.paymentRepo.GetPaymentByRide(ctx, ev.RideID); err == nil {
		logger.Info("Ride already settled, skipping charge",
			logger.String("ride_id", ev.RideID),
			logger.String("payment_id", existing.ID.String()),
			logger.String("status", string(existing.Status)))
		return nil
	} else if !errors.Is(err, errs.ErrNotFound) {
		return fmt.Errorf("failed to check existing payment: %w", err)
	}

	result, err := uc.processor.Charge(ctx, ev.RideID, amount, currency, ev.Metadata[constants.MetaPaymentMethod])
	if err != nil {
		return fmt.Errorf("failed to charge ride %s: %w", ev.RideID, err)
	}

	pmt := &models.Payment{
		ID:             uuid.New(),
		RideID:         rideID,
		UserID:         ev.UserID,
		Amount:         amount,
		Currency:       currency,
		Status:         result.Status,
		TransactionRef: result.TransactionRef,
		CreatedAt:      time.Now().UTC(),
	}

	created, err := uc.paymentRepo.CreatePayment(ctx, pmt)
	if err != nil {
		return fmt.Errorf("failed to persist payment: %w", err)
	}
	if !created {
		// Lost the race against a concurrent delivery; that row is the
		// settlement of record.
		logger.Info("Ride settled concurrently, discarding duplicate charge",
			logger.String("ride_id", ev.RideID),
			logger.String("transaction_ref", result.TransactionRef))
		return nil
	}

	observability.PaymentsProcessed.WithLabelValues(string(pmt.Status)).Inc()
	logger.Info("Payment processed",
		logger.String("payment_id", pmt.ID.String()),
		logger.String("ride_id", ev.RideID),
		logger.Float64("amount", pmt.Amount),
		logger.String("currency", pmt.Currency),
		logger.String("status", string(pmt.Status)))

	if err := uc.paymentGW.PublishPaymentProcessed(ctx, pmt); err != nil {
		logger.Error("Failed to publish payment processed event",
			logger.String("ride_id", ev.RideID),
			logger.Err(err))
	}
	return nil
}

// GetPaymentByRide returns the settlement for a ride
func (uc *PaymentUC) GetPaymentByRide(ctx context.Context, rideID string) (*models.Payment, error) {
	if _, err := uuid.Parse(rideID); err != nil {
		return nil, fmt.Errorf("%w: invalid ride ID", errs.ErrInvalidInput)
	}
	return uc.paymentRepo.GetPaymentByRide(ctx, rideID)
}
