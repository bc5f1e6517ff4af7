package gateway

import (
	"context"

	"github.com/prasetya/ridelink/internal/pkg/logger"
	"github.com/prasetya/ridelink/internal/pkg/models"
	"github.com/prasetya/ridelink/services/notification"
)

// LogDeliverer writes notifications to the service log. It stands in for a
// push or SMS channel, which this service does not integrate.
type LogDeliverer struct{}

// NewLogDeliverer creates the log-backed delivery sink
func NewLogDeliverer() notification.Deliverer {
	return &LogDeliverer{}
}

func (d *LogDeliverer) Deliver(ctx context.Context, n models.Notification) error {
	logger.Info("Notification delivered",
		logger.String("user_id", n.UserID),
		logger.String("title", n.Title),
		logger.String("body", n.Body),
		logger.Any("data", n.Data))
	return nil
}
