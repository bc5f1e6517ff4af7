package models

import "time"

// Event is the lifecycle event wire format shared by all services.
// Events are immutable once published. Ordering is significant only among
// events sharing the same ride id (the partition key); the bus makes no
// ordering promise across rides.
type Event struct {
	Type      string            `json:"event_type"`
	RideID    string            `json:"ride_id"`
	UserID    string            `json:"user_id"`
	Timestamp time.Time         `json:"timestamp"`
	Metadata  map[string]string `json:"metadata"`
}

// NewEvent builds a lifecycle event stamped with the current time.
func NewEvent(eventType, rideID, userID string, metadata map[string]string) Event {
	if metadata == nil {
		metadata = map[string]string{}
	}
	return Event{
		Type:      eventType,
		RideID:    rideID,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Metadata:  metadata,
	}
}

// Key returns the partition key used to preserve per-ride ordering.
func (e Event) Key() string {
	return e.RideID
}

// DedupeKey identifies an event for duplicate suppression: redelivering the
// same (type, ride) pair must produce at most one downstream effect.
func (e Event) DedupeKey() string {
	return e.Type + ":" + e.RideID
}
