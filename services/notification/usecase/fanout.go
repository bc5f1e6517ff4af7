package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/prasetya/ridelink/internal/pkg/constants"
	"github.com/prasetya/ridelink/internal/pkg/errs"
	"github.com/prasetya/ridelink/internal/pkg/logger"
	"github.com/prasetya/ridelink/internal/pkg/models"
	"github.com/prasetya/ridelink/internal/pkg/observability"
	"github.com/prasetya/ridelink/services/notification"
)

// FanoutUC turns lifecycle events into user notifications
type FanoutUC struct {
	seen      notification.DedupeStore
	deliverer notification.Deliverer
}

// NewFanoutUC creates a new fanout usecase
func NewFanoutUC(seen notification.DedupeStore, deliverer notification.Deliverer) *FanoutUC {
	return &FanoutUC{seen: seen, deliverer: deliverer}
}

// HandleEvent renders and delivers one notification per (event type, ride).
// The dedupe store is claimed before delivery, so a redelivered event is a
// no-op. Delivery itself is best effort: a failed push is logged, not
// redelivered.
func (uc *FanoutUC) HandleEvent(ctx context.Context, ev models.Event) error {
	if ev.Type == "" || ev.RideID == "" {
		logger.Warn("Skipping notification event without type or ride ID",
			logger.String("event_type", ev.Type),
			logger.String("ride_id", ev.RideID))
		return nil
	}

	if err := uc.seen.MarkSeen(ctx, ev.Type, ev.RideID); err != nil {
		if errors.Is(err, errs.ErrDuplicateEvent) {
			observability.NotificationsDuplicate.Inc()
			logger.Debug("Suppressing duplicate notification",
				logger.String("event_type", ev.Type),
				logger.String("ride_id", ev.RideID))
			return nil
		}
		return fmt.Errorf("failed to check dedupe store: %w", err)
	}

	n := render(ev)
	if err := uc.deliverer.Deliver(ctx, n); err != nil {
		logger.Error("Failed to deliver notification",
			logger.String("event_type", ev.Type),
			logger.String("ride_id", ev.RideID),
			logger.Err(err))
		return nil
	}

	observability.NotificationsSent.WithLabelValues(ev.Type).Inc()
	return nil
}

// render maps an event to a user-facing message. Unknown event types get a
// generic notification rather than being dropped.
func render(ev models.Event) models.Notification {
	n := models.Notification{
		UserID: ev.UserID,
		Data: map[string]string{
			"event_type": ev.Type,
			"ride_id":    ev.RideID,
		},
	}
	for k, v := range ev.Metadata {
		n.Data[k] = v
	}

	switch ev.Type {
	case constants.EventRideAssigned:
		n.Title = "Driver assigned"
		driver := ev.Metadata[constants.MetaDriverID]
		if driver == "" {
			driver = "your driver"
		}
		n.Body = fmt.Sprintf("%s is on the way to your pickup point.", driver)
	case constants.EventRideCompleted:
		n.Title = "Ride completed"
		n.Body = fmt.Sprintf("Your ride is complete. Fare: %s %s.",
			ev.Metadata[constants.MetaFareTotal], ev.Metadata[constants.MetaCurrency])
	case constants.EventRideCancelled:
		n.Title = "Ride cancelled"
		reason := ev.Metadata[constants.MetaCancelReason]
		if reason == "" {
			reason = "unknown reason"
		}
		n.Body = fmt.Sprintf("Your ride was cancelled (%s).", reason)
	case constants.EventPaymentProcessed:
		if ev.Metadata[constants.MetaStatus] == string(models.PaymentStatusFailed) {
			n.Title = "Payment failed"
			n.Body = "We could not process the payment for your ride. Please update your payment method."
		} else {
			n.Title = "Payment received"
			n.Body = fmt.Sprintf("We charged %s %s for your ride.",
				ev.Metadata[constants.MetaAmount], ev.Metadata[constants.MetaCurrency])
		}
	default:
		n.Title = "Ride update"
		n.Body = fmt.Sprintf("There is an update for your ride %s.", ev.RideID)
	}
	return n
}
