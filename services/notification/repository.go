package notification

import "context"

// DedupeStore remembers which events have already been fanned out.
type DedupeStore interface {
	// MarkSeen records the (event type, ride id) pair. A pair already
	// recorded inside the dedupe window returns errs.ErrDuplicateEvent.
	MarkSeen(ctx context.Context, eventType, rideID string) error
}
