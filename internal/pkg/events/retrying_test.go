package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prasetya/ridelink/internal/pkg/models"
	"github.com/prasetya/ridelink/internal/pkg/retry"
)

type flakyPublisher struct {
	mu       sync.Mutex
	failures int
	calls    int
	events   []models.Event
}

func (p *flakyPublisher) Publish(ctx context.Context, topic string, ev models.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.calls <= p.failures {
		return errors.New("broker unavailable")
	}
	p.events = append(p.events, ev)
	return nil
}

type recordingSink struct {
	mu      sync.Mutex
	records []models.Event
}

func (s *recordingSink) Record(ctx context.Context, topic string, ev models.Event, cause error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, ev)
	return nil
}

func fastRetryConfig(maxRetries int) retry.Config {
	cfg := retry.DefaultConfig()
	cfg.MaxRetries = maxRetries
	cfg.BaseDelay = time.Millisecond
	cfg.MaxDelay = 5 * time.Millisecond
	return cfg
}

func TestRetryingPublisher_SucceedsOnThirdAttempt(t *testing.T) {
	next := &flakyPublisher{failures: 2}
	sink := &recordingSink{}
	pub := NewRetryingPublisher(next, fastRetryConfig(3), time.Second, sink)

	ev := models.Event{Type: "ride.assigned", RideID: "r1"}
	err := pub.Publish(context.Background(), "rides.assigned", ev)
	require.NoError(t, err)

	assert.Equal(t, 3, next.calls)
	require.Len(t, next.events, 1)
	assert.Equal(t, "r1", next.events[0].RideID)
	assert.Empty(t, sink.records, "successful publish must not dead-letter")
}

func TestRetryingPublisher_DeadLettersAfterExhaustion(t *testing.T) {
	next := &flakyPublisher{failures: 100}
	sink := &recordingSink{}
	pub := NewRetryingPublisher(next, fastRetryConfig(2), time.Second, sink)

	ev := models.Event{Type: "ride.assigned", RideID: "r2"}
	err := pub.Publish(context.Background(), "rides.assigned", ev)
	require.Error(t, err)

	require.Len(t, sink.records, 1)
	assert.Equal(t, "r2", sink.records[0].RideID)
	assert.Empty(t, next.events)
}

func TestRetryingPublisher_NilSink(t *testing.T) {
	next := &flakyPublisher{failures: 100}
	pub := NewRetryingPublisher(next, fastRetryConfig(1), time.Second, nil)

	err := pub.Publish(context.Background(), "rides.assigned", models.Event{RideID: "r3"})
	require.Error(t, err)
}
