package events

import (
	"context"

	"github.com/prasetya/ridelink/internal/pkg/models"
)

// Handler processes one delivered event. A non-nil error triggers
// redelivery; the bus is at-least-once, so handlers must be idempotent.
type Handler func(ctx context.Context, ev models.Event) error

// Publisher sends lifecycle events to a topic. Events must carry a
// non-empty partition key (the ride id); ordering is preserved only among
// events sharing that key. Publishing respects the caller's context
// deadline and fails with ErrPublishTimeout instead of hanging.
type Publisher interface {
	Publish(ctx context.Context, topic string, ev models.Event) error
}

// Consumer delivers a topic's events to a handler. Each subscriber group
// sees every event at least once; malformed payloads are logged and skipped
// so one bad event never blocks its partition.
type Consumer interface {
	Subscribe(topic, group string, handler Handler) error
}

// Bus combines both halves of the event channel
type Bus interface {
	Publisher
	Consumer
}

// DeadLetterSink is the durable fallback destination for events whose
// publication exhausted its retry budget.
type DeadLetterSink interface {
	Record(ctx context.Context, topic string, ev models.Event, cause error) error
}
