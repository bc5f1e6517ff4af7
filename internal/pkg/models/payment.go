package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus is the terminal outcome of a payment attempt
type PaymentStatus string

const (
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Payment is one settlement attempt for a completed ride. Rows are created
// once per attempt and never mutated after the terminal status is set.
type Payment struct {
	ID             uuid.UUID     `json:"payment_id" db:"id"`
	RideID         uuid.UUID     `json:"ride_id" db:"ride_id"`
	UserID         string        `json:"user_id" db:"user_id"`
	Amount         float64       `json:"amount" db:"amount"`
	Currency       string        `json:"currency" db:"currency"`
	Status         PaymentStatus `json:"status" db:"status"`
	TransactionRef string        `json:"transaction_ref,omitempty" db:"transaction_ref"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
}

// ChargeResult is the outcome reported by a payment processor
type ChargeResult struct {
	Status         PaymentStatus
	TransactionRef string
}
