package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prasetya/ridelink/internal/pkg/constants"
	"github.com/prasetya/ridelink/internal/pkg/models"
)

type capturingPublisher struct {
	topic string
	ev    models.Event
}

func (p *capturingPublisher) Publish(ctx context.Context, topic string, ev models.Event) error {
	p.topic = topic
	p.ev = ev
	return nil
}

func TestPublishPaymentProcessed_CarriesUserAndRide(t *testing.T) {
	pub := &capturingPublisher{}
	gw := NewPaymentGW(pub)

	pmt := &models.Payment{
		ID:             uuid.New(),
		RideID:         uuid.New(),
		UserID:         "rider-1",
		Amount:         18.50,
		Currency:       "USD",
		Status:         models.PaymentStatusSucceeded,
		TransactionRef: "txn_mock_ab12cd34",
		CreatedAt:      time.Now().UTC(),
	}

	require.NoError(t, gw.PublishPaymentProcessed(context.Background(), pmt))

	assert.Equal(t, constants.TopicPaymentProcessed, pub.topic)
	assert.Equal(t, constants.EventPaymentProcessed, pub.ev.Type)
	assert.Equal(t, pmt.RideID.String(), pub.ev.RideID)
	assert.Equal(t, "rider-1", pub.ev.UserID)
	assert.Equal(t, "succeeded", pub.ev.Metadata[constants.MetaStatus])
	assert.Equal(t, "18.50", pub.ev.Metadata[constants.MetaAmount])
	assert.Equal(t, "txn_mock_ab12cd34", pub.ev.Metadata[constants.MetaTransaction])
}

func TestPublishPaymentProcessed_FailedOmitsTransactionRef(t *testing.T) {
	pub := &capturingPublisher{}
	gw := NewPaymentGW(pub)

	pmt := &models.Payment{
		ID:       uuid.New(),
		RideID:   uuid.New(),
		UserID:   "rider-2",
		Amount:   9.75,
		Currency: "USD",
		Status:   models.PaymentStatusFailed,
	}

	require.NoError(t, gw.PublishPaymentProcessed(context.Background(), pmt))

	assert.Equal(t, "rider-2", pub.ev.UserID)
	assert.Equal(t, "failed", pub.ev.Metadata[constants.MetaStatus])
	assert.NotContains(t, pub.ev.Metadata, constants.MetaTransaction)
}
