package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prasetya/ridelink/internal/pkg/database"
	"github.com/prasetya/ridelink/internal/pkg/errs"
	"github.com/prasetya/ridelink/internal/pkg/models"
)

func newMockPaymentRepo(t *testing.T) (*paymentRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	return &paymentRepo{pg: database.NewPostgresClientFromDB(sqlxDB)}, mock
}

func samplePayment() *models.Payment {
	return &models.Payment{
		ID:             uuid.New(),
		RideID:         uuid.New(),
		UserID:         "rider-1",
		Amount:         18.50,
		Currency:       "USD",
		Status:         models.PaymentStatusSucceeded,
		TransactionRef: "txn_mock_ab12cd34",
		CreatedAt:      time.Now().UTC(),
	}
}

func TestCreatePayment(t *testing.T) {
	repo, mock := newMockPaymentRepo(t)
	pmt := samplePayment()

	mock.ExpectExec(`INSERT INTO payments`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	created, err := repo.CreatePayment(context.Background(), pmt)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePayment_ConflictReportsSettled(t *testing.T) {
	repo, mock := newMockPaymentRepo(t)
	pmt := samplePayment()

	mock.ExpectExec(`INSERT INTO payments`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	created, err := repo.CreatePayment(context.Background(), pmt)
	require.NoError(t, err)
	assert.False(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPaymentByRide(t *testing.T) {
	repo, mock := newMockPaymentRepo(t)
	pmt := samplePayment()

	rows := sqlmock.NewRows([]string{
		"id", "ride_id", "user_id", "amount", "currency", "status", "transaction_ref", "created_at",
	}).AddRow(pmt.ID, pmt.RideID, pmt.UserID, pmt.Amount, pmt.Currency, string(pmt.Status), pmt.TransactionRef, pmt.CreatedAt)

	mock.ExpectQuery(`SELECT (.+) FROM payments`).
		WithArgs(pmt.RideID.String()).
		WillReturnRows(rows)

	got, err := repo.GetPaymentByRide(context.Background(), pmt.RideID.String())
	require.NoError(t, err)
	assert.Equal(t, pmt.ID, got.ID)
	assert.Equal(t, "rider-1", got.UserID)
	assert.Equal(t, pmt.Amount, got.Amount)
	assert.Equal(t, models.PaymentStatusSucceeded, got.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPaymentByRide_NotFound(t *testing.T) {
	repo, mock := newMockPaymentRepo(t)
	rideID := uuid.NewString()

	mock.ExpectQuery(`SELECT (.+) FROM payments`).
		WithArgs(rideID).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetPaymentByRide(context.Background(), rideID)
	assert.True(t, errors.Is(err, errs.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
