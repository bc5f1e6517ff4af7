package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/prasetya/ridelink/internal/pkg/database"
	"github.com/prasetya/ridelink/internal/pkg/errs"
	"github.com/prasetya/ridelink/internal/pkg/models"
	"github.com/prasetya/ridelink/services/payment"
)

type paymentRepo struct {
	pg *database.PostgresClient
}

// NewPaymentRepository creates a payment repository backed by postgres
func NewPaymentRepository(pg *database.PostgresClient) payment.PaymentRepo {
	return &paymentRepo{pg: pg}
}

// CreatePayment inserts the settlement row for a ride. The unique index on
// ride_id makes the insert the idempotency gate: a conflicting row leaves the
// table untouched and reports false.
func (r *paymentRepo) CreatePayment(ctx context.Context, pmt *models.Payment) (bool, error) {
	query := `
		INSERT INTO payments (id, ride_id, user_id, amount, currency, status, transaction_ref, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (ride_id) DO NOTHING`

	res, err := r.pg.GetDB().ExecContext(ctx, query,
		pmt.ID, pmt.RideID, pmt.UserID, pmt.Amount, pmt.Currency,
		string(pmt.Status), pmt.TransactionRef, pmt.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("failed to create payment: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return rows == 1, nil
}

// GetPaymentByRide returns the settlement for a ride
func (r *paymentRepo) GetPaymentByRide(ctx context.Context, rideID string) (*models.Payment, error) {
	query := `
		SELECT id, ride_id, user_id, amount, currency, status, transaction_ref, created_at
		FROM payments
		WHERE ride_id = $1`

	var pmt models.Payment
	if err := r.pg.GetDB().GetContext(ctx, &pmt, query, rideID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: payment for ride %s", errs.ErrNotFound, rideID)
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return &pmt, nil
}
