package events

import (
	"context"
	"time"

	"github.com/prasetya/ridelink/internal/pkg/logger"
	"github.com/prasetya/ridelink/internal/pkg/models"
	"github.com/prasetya/ridelink/internal/pkg/observability"
	"github.com/prasetya/ridelink/internal/pkg/retry"
)

// RetryingPublisher wraps a Publisher with bounded retries and dead-letter
// escalation. Each attempt gets its own timeout so a hung broker connection
// cannot absorb the whole retry budget.
type RetryingPublisher struct {
	next           Publisher
	retrier        *retry.Retrier
	attemptTimeout time.Duration
	deadLetters    DeadLetterSink
}

// NewRetryingPublisher builds a publisher that retries per the given config
// and records exhausted events into sink. sink may be nil, in which case
// exhausted events are only logged.
func NewRetryingPublisher(next Publisher, cfg retry.Config, attemptTimeout time.Duration, sink DeadLetterSink) *RetryingPublisher {
	if attemptTimeout <= 0 {
		attemptTimeout = 2 * time.Second
	}
	return &RetryingPublisher{
		next:           next,
		retrier:        retry.New(cfg),
		attemptTimeout: attemptTimeout,
		deadLetters:    sink,
	}
}

func (p *RetryingPublisher) Publish(ctx context.Context, topic string, ev models.Event) error {
	err := p.retrier.Execute(ctx, func(ctx context.Context) error {
		attemptCtx, cancel := context.WithTimeout(ctx, p.attemptTimeout)
		defer cancel()
		return p.next.Publish(attemptCtx, topic, ev)
	})
	if err == nil {
		observability.EventsPublished.WithLabelValues(topic).Inc()
		return nil
	}

	logger.Error("publish retries exhausted, dead-lettering event",
		logger.String("topic", topic),
		logger.String("event_type", ev.Type),
		logger.String("ride_id", ev.RideID),
		logger.Err(err))
	observability.EventsDeadLettered.WithLabelValues(topic).Inc()

	if p.deadLetters != nil {
		if dlErr := p.deadLetters.Record(context.WithoutCancel(ctx), topic, ev, err); dlErr != nil {
			logger.Error("dead letter record failed",
				logger.String("topic", topic),
				logger.String("ride_id", ev.RideID),
				logger.Err(dlErr))
		}
	}
	return err
}
