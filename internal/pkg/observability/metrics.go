// Package observability exposes the Prometheus metrics shared across
// services. Collectors are registered on the default registry via promauto
// so each binary only needs to mount the handler from Handler().
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RidesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ridelink_rides_created_total",
		Help: "Ride requests accepted for dispatch.",
	})

	RidesAssigned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ridelink_rides_assigned_total",
		Help: "Rides matched to a driver.",
	})

	RidesCancelled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ridelink_rides_cancelled_total",
		Help: "Rides cancelled, by reason.",
	}, []string{"reason"})

	RidesCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ridelink_rides_completed_total",
		Help: "Rides completed with a final fare.",
	})

	MatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ridelink_match_duration_seconds",
		Help:    "Time from ride request to driver assignment.",
		Buckets: prometheus.DefBuckets,
	})

	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ridelink_events_published_total",
		Help: "Events successfully published, by topic.",
	}, []string{"topic"})

	EventsDeadLettered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ridelink_events_dead_lettered_total",
		Help: "Events recorded to the dead letter store after publish retries, by topic.",
	}, []string{"topic"})

	EventsConsumed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ridelink_events_consumed_total",
		Help: "Events handled by consumers, by topic and result.",
	}, []string{"topic", "result"})

	DriverHeartbeats = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ridelink_driver_heartbeats_total",
		Help: "Driver location heartbeats accepted.",
	})

	NotificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ridelink_notifications_sent_total",
		Help: "Notifications delivered, by event type.",
	}, []string{"event_type"})

	NotificationsDuplicate = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ridelink_notifications_duplicate_total",
		Help: "Notifications suppressed by the dedupe store.",
	})

	PaymentsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ridelink_payments_processed_total",
		Help: "Payment charges attempted, by status.",
	}, []string{"status"})
)

// Handler returns the scrape endpoint for the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
