package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prasetya/ridelink/internal/pkg/errs"
	"github.com/prasetya/ridelink/internal/pkg/models"
)

func TestMemoryBus_OrderingPerKey(t *testing.T) {
	bus := NewMemoryBus(DefaultMemoryBusConfig())
	defer bus.Close()

	var mu sync.Mutex
	seen := make(map[string][]string)
	done := make(chan struct{})
	const total = 40

	count := 0
	err := bus.Subscribe("rides.created", "test-group", func(ctx context.Context, ev models.Event) error {
		mu.Lock()
		defer mu.Unlock()
		seen[ev.RideID] = append(seen[ev.RideID], ev.Metadata["seq"])
		count++
		if count == total {
			close(done)
		}
		return nil
	})
	require.NoError(t, err)

	rides := []string{"ride-a", "ride-b", "ride-c", "ride-d"}
	ctx := context.Background()
	for i := 0; i < 10; i++ {
		for _, rid := range rides {
			ev := models.Event{
				Type:     "ride.created",
				RideID:   rid,
				Metadata: map[string]string{"seq": string(rune('0' + i))},
			}
			require.NoError(t, bus.Publish(ctx, "rides.created", ev))
		}
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for deliveries")
	}

	mu.Lock()
	defer mu.Unlock()
	for _, rid := range rides {
		require.Len(t, seen[rid], 10)
		for i, seq := range seen[rid] {
			assert.Equal(t, string(rune('0'+i)), seq, "out of order for %s", rid)
		}
	}
}

func TestMemoryBus_RedeliversOnHandlerError(t *testing.T) {
	cfg := DefaultMemoryBusConfig()
	cfg.RedeliveryDelay = time.Millisecond
	bus := NewMemoryBus(cfg)
	defer bus.Close()

	var mu sync.Mutex
	attempts := 0
	done := make(chan struct{})
	err := bus.Subscribe("rides.created", "flaky", func(ctx context.Context, ev models.Event) error {
		mu.Lock()
		defer mu.Unlock()
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		close(done)
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, bus.Publish(context.Background(), "rides.created", models.Event{Type: "ride.created", RideID: "r1"}))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("event was not redelivered")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 3, attempts)
}

func TestMemoryBus_FanOutToGroups(t *testing.T) {
	bus := NewMemoryBus(DefaultMemoryBusConfig())
	defer bus.Close()

	var wg sync.WaitGroup
	wg.Add(2)
	for _, group := range []string{"dispatch-service", "notification-service"} {
		require.NoError(t, bus.Subscribe("rides.assigned", group, func(ctx context.Context, ev models.Event) error {
			wg.Done()
			return nil
		}))
	}

	require.NoError(t, bus.Publish(context.Background(), "rides.assigned", models.Event{Type: "ride.assigned", RideID: "r1"}))

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("not all groups received the event")
	}
}

func TestMemoryBus_PublishTimeoutWhenBufferFull(t *testing.T) {
	cfg := MemoryBusConfig{Partitions: 1, BufferSize: 1, MaxDeliver: 1, RedeliveryDelay: time.Millisecond}
	bus := NewMemoryBus(cfg)
	defer bus.Close()

	block := make(chan struct{})
	require.NoError(t, bus.Subscribe("rides.created", "slow", func(ctx context.Context, ev models.Event) error {
		<-block
		return nil
	}))
	defer close(block)

	ctx := context.Background()
	// First event occupies the handler, second fills the buffer.
	require.NoError(t, bus.Publish(ctx, "rides.created", models.Event{RideID: "r1"}))
	require.NoError(t, bus.Publish(ctx, "rides.created", models.Event{RideID: "r1"}))

	shortCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	err := bus.Publish(shortCtx, "rides.created", models.Event{RideID: "r1"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrPublishTimeout))
}

func TestMemoryBus_DuplicateGroupRejected(t *testing.T) {
	bus := NewMemoryBus(DefaultMemoryBusConfig())
	defer bus.Close()

	handler := func(ctx context.Context, ev models.Event) error { return nil }
	require.NoError(t, bus.Subscribe("rides.created", "g1", handler))
	assert.Error(t, bus.Subscribe("rides.created", "g1", handler))
}

func TestMemoryBus_RejectsKeylessEvent(t *testing.T) {
	bus := NewMemoryBus(DefaultMemoryBusConfig())
	defer bus.Close()

	err := bus.Publish(context.Background(), "rides.created", models.Event{Type: "ride.created"})
	assert.ErrorIs(t, err, errs.ErrInvalidInput)
}
