package gateway

import (
	"context"
	"fmt"
	"strconv"

	"github.com/prasetya/ridelink/internal/pkg/constants"
	"github.com/prasetya/ridelink/internal/pkg/events"
	"github.com/prasetya/ridelink/internal/pkg/models"
	"github.com/prasetya/ridelink/services/payment"
)

// PaymentGW publishes settlement outcomes on the event bus
type PaymentGW struct {
	publisher events.Publisher
}

// NewPaymentGW creates a new payment gateway
func NewPaymentGW(publisher events.Publisher) payment.PaymentGW {
	return &PaymentGW{publisher: publisher}
}

func (g *PaymentGW) PublishPaymentProcessed(ctx context.Context, pmt *models.Payment) error {
	meta := map[string]string{
		constants.MetaStatus:   string(pmt.Status),
		constants.MetaAmount:   strconv.FormatFloat(pmt.Amount, 'f', 2, 64),
		constants.MetaCurrency: pmt.Currency,
	}
	if pmt.TransactionRef != "" {
		meta[constants.MetaTransaction] = pmt.TransactionRef
	}
	ev := models.NewEvent(constants.EventPaymentProcessed, pmt.RideID.String(), pmt.UserID, meta)
	if err := g.publisher.Publish(ctx, constants.TopicPaymentProcessed, ev); err != nil {
		return fmt.Errorf("publish %s: %w", constants.EventPaymentProcessed, err)
	}
	return nil
}
