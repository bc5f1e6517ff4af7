package gateway

import (
	"context"
	"fmt"
	"strconv"

	"github.com/prasetya/ridelink/internal/pkg/constants"
	"github.com/prasetya/ridelink/internal/pkg/events"
	"github.com/prasetya/ridelink/internal/pkg/models"
	"github.com/prasetya/ridelink/services/dispatch"
)

// DispatchGW publishes ride lifecycle events on the event bus. The wrapped
// publisher is expected to retry and dead-letter on its own.
type DispatchGW struct {
	publisher events.Publisher
}

// NewDispatchGW creates a new dispatch gateway
func NewDispatchGW(publisher events.Publisher) dispatch.DispatchGW {
	return &DispatchGW{publisher: publisher}
}

func (g *DispatchGW) PublishRideCreated(ctx context.Context, ride *models.Ride) error {
	return g.publish(ctx, constants.TopicRideCreated, constants.EventRideCreated, ride, nil)
}

func (g *DispatchGW) PublishRideAssigned(ctx context.Context, ride *models.Ride) error {
	meta := map[string]string{}
	if ride.DriverID != nil {
		meta[constants.MetaDriverID] = *ride.DriverID
	}
	return g.publish(ctx, constants.TopicRideAssigned, constants.EventRideAssigned, ride, meta)
}

func (g *DispatchGW) PublishRideStarted(ctx context.Context, ride *models.Ride) error {
	return g.publish(ctx, constants.TopicRideStarted, constants.EventRideStarted, ride, nil)
}

func (g *DispatchGW) PublishRideCompleted(ctx context.Context, ride *models.Ride) error {
	meta := map[string]string{
		constants.MetaFareTotal:  strconv.FormatFloat(ride.Fare.Total, 'f', 2, 64),
		constants.MetaCurrency:   ride.Fare.Currency,
		constants.MetaDistanceKm: strconv.FormatFloat(ride.Fare.DistanceKm, 'f', -1, 64),
	}
	if ride.DriverID != nil {
		meta[constants.MetaDriverID] = *ride.DriverID
	}
	return g.publish(ctx, constants.TopicRideCompleted, constants.EventRideCompleted, ride, meta)
}

func (g *DispatchGW) PublishRideCancelled(ctx context.Context, ride *models.Ride) error {
	meta := map[string]string{
		constants.MetaCancelReason: ride.CancelReason,
	}
	return g.publish(ctx, constants.TopicRideCancelled, constants.EventRideCancelled, ride, meta)
}

func (g *DispatchGW) publish(ctx context.Context, topic, eventType string, ride *models.Ride, meta map[string]string) error {
	ev := models.NewEvent(eventType, ride.ID.String(), ride.RiderID, meta)
	if err := g.publisher.Publish(ctx, topic, ev); err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}
	return nil
}
