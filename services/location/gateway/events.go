package gateway

import (
	"context"
	"fmt"
	"strconv"

	"github.com/prasetya/ridelink/internal/pkg/constants"
	"github.com/prasetya/ridelink/internal/pkg/events"
	"github.com/prasetya/ridelink/internal/pkg/models"
	"github.com/prasetya/ridelink/services/location"
)

// LocationGW publishes driver location updates on the event bus
type LocationGW struct {
	publisher events.Publisher
}

// NewLocationGW creates a new location gateway
func NewLocationGW(publisher events.Publisher) location.LocationGW {
	return &LocationGW{publisher: publisher}
}

// PublishDriverLocation emits a drivers.location event. The driver id is
// the partition key so updates for one driver stay ordered.
func (g *LocationGW) PublishDriverLocation(ctx context.Context, update models.DriverLocationEvent) error {
	ev := models.NewEvent(constants.EventDriverLocation, update.DriverID, update.DriverID, map[string]string{
		constants.MetaDriverID:  update.DriverID,
		constants.MetaLatitude:  strconv.FormatFloat(update.Latitude, 'f', -1, 64),
		constants.MetaLongitude: strconv.FormatFloat(update.Longitude, 'f', -1, 64),
		constants.MetaOnline:    strconv.FormatBool(update.Online),
	})
	ev.Timestamp = update.Timestamp

	if err := g.publisher.Publish(ctx, constants.TopicDriverLocation, ev); err != nil {
		return fmt.Errorf("publish driver location: %w", err)
	}
	return nil
}
