package processor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prasetya/ridelink/internal/pkg/errs"
	"github.com/prasetya/ridelink/internal/pkg/models"
)

func TestMockCharge_Succeeds(t *testing.T) {
	proc := NewMockProcessor()

	result, err := proc.Charge(context.Background(), "ride-1", 18.50, "USD", "")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusSucceeded, result.Status)
	assert.Regexp(t, `^txn_mock_[0-9a-f]{8}$`, result.TransactionRef)
}

func TestMockCharge_DeclinedMethod(t *testing.T) {
	proc := NewMockProcessor()

	result, err := proc.Charge(context.Background(), "ride-1", 18.50, "USD", DeclinedPaymentMethod)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusFailed, result.Status)
	assert.Empty(t, result.TransactionRef)
}

func TestMockCharge_RejectsNonPositiveAmount(t *testing.T) {
	proc := NewMockProcessor()

	_, err := proc.Charge(context.Background(), "ride-1", 0, "USD", "")
	assert.ErrorIs(t, err, errs.ErrInvalidInput)

	_, err = proc.Charge(context.Background(), "ride-1", -5, "USD", "")
	assert.ErrorIs(t, err, errs.ErrInvalidInput)
}

func TestMockCharge_UniqueTransactionRefs(t *testing.T) {
	proc := NewMockProcessor()
	seen := map[string]bool{}

	for i := 0; i < 20; i++ {
		result, err := proc.Charge(context.Background(), "ride-1", 10, "USD", "")
		require.NoError(t, err)
		assert.False(t, seen[result.TransactionRef])
		seen[result.TransactionRef] = true
	}
}
