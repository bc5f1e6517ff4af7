package errs

import "errors"

var (
	// ErrInvalidInput covers malformed or non-finite request values.
	// Rejected immediately, never retried.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCoordinate is returned for latitudes outside [-90, 90] or
	// longitudes outside [-180, 180].
	ErrInvalidCoordinate = errors.New("invalid coordinate")

	// ErrNotFound is returned for unknown ride, driver or payment identifiers.
	ErrNotFound = errors.New("not found")

	// ErrNoDriversAvailable is the business outcome of an exhausted matching
	// window. The ride transitions to cancelled; this is not an exception path.
	ErrNoDriversAvailable = errors.New("no drivers available")

	// ErrRideClosed is returned when a transition is requested on a ride that
	// already reached a terminal state.
	ErrRideClosed = errors.New("ride already completed or cancelled")

	// ErrInvalidTransition is returned for a status change the ride state
	// machine does not permit.
	ErrInvalidTransition = errors.New("invalid ride status transition")

	// ErrPublishTimeout is returned when the event bus did not acknowledge a
	// publish within the caller-supplied deadline.
	ErrPublishTimeout = errors.New("event publish timed out")

	// ErrDuplicateEvent marks a redelivered event that was already processed.
	ErrDuplicateEvent = errors.New("duplicate event")
)
