package events

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/prasetya/ridelink/internal/pkg/errs"
	"github.com/prasetya/ridelink/internal/pkg/logger"
	"github.com/prasetya/ridelink/internal/pkg/models"
)

// MemoryBusConfig tunes the in-process bus
type MemoryBusConfig struct {
	Partitions      int
	BufferSize      int
	MaxDeliver      int
	RedeliveryDelay time.Duration
}

// DefaultMemoryBusConfig returns sane defaults for tests and single-process
// deployments.
func DefaultMemoryBusConfig() MemoryBusConfig {
	return MemoryBusConfig{
		Partitions:      8,
		BufferSize:      64,
		MaxDeliver:      3,
		RedeliveryDelay: 10 * time.Millisecond,
	}
}

// MemoryBus is an in-process event bus with the same delivery contract as
// the JetStream bus: at-least-once per subscriber group, ordering preserved
// only among events sharing a partition key. Each group consumes from its
// own set of partition channels, one goroutine per partition, so slow
// handlers on one ride never block events for another.
type MemoryBus struct {
	cfg    MemoryBusConfig
	mu     sync.RWMutex
	subs   map[string][]*memorySub // topic -> one entry per group
	closed chan struct{}
	wg     sync.WaitGroup
}

type memorySub struct {
	group   string
	handler Handler
	parts   []chan models.Event
}

// NewMemoryBus creates a started in-memory bus
func NewMemoryBus(cfg MemoryBusConfig) *MemoryBus {
	if cfg.Partitions <= 0 {
		cfg.Partitions = 1
	}
	if cfg.MaxDeliver <= 0 {
		cfg.MaxDeliver = 1
	}
	return &MemoryBus{
		cfg:    cfg,
		subs:   make(map[string][]*memorySub),
		closed: make(chan struct{}),
	}
}

// Publish fans the event out to every subscriber group on the topic. It
// blocks while a partition buffer is full and gives up with
// ErrPublishTimeout when the caller's context expires first.
func (b *MemoryBus) Publish(ctx context.Context, topic string, ev models.Event) error {
	if ev.Key() == "" {
		return fmt.Errorf("%w: event partition key is required on %s", errs.ErrInvalidInput, topic)
	}

	b.mu.RLock()
	subs := b.subs[topic]
	b.mu.RUnlock()

	idx := b.partitionFor(ev.Key())
	for _, sub := range subs {
		select {
		case sub.parts[idx] <- ev:
		case <-ctx.Done():
			return fmt.Errorf("%w: topic %s group %s", errs.ErrPublishTimeout, topic, sub.group)
		case <-b.closed:
			return fmt.Errorf("bus closed while publishing to %s", topic)
		}
	}
	return nil
}

// Subscribe registers a handler for a (topic, group) pair. A group may be
// registered once per topic.
func (b *MemoryBus) Subscribe(topic, group string, handler Handler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, sub := range b.subs[topic] {
		if sub.group == group {
			return fmt.Errorf("group %s already subscribed to %s", group, topic)
		}
	}

	sub := &memorySub{
		group:   group,
		handler: handler,
		parts:   make([]chan models.Event, b.cfg.Partitions),
	}
	for i := range sub.parts {
		sub.parts[i] = make(chan models.Event, b.cfg.BufferSize)
		b.wg.Add(1)
		go b.consumePartition(topic, sub, sub.parts[i])
	}
	b.subs[topic] = append(b.subs[topic], sub)
	return nil
}

func (b *MemoryBus) consumePartition(topic string, sub *memorySub, ch chan models.Event) {
	defer b.wg.Done()
	for {
		select {
		case <-b.closed:
			return
		case ev := <-ch:
			b.deliver(topic, sub, ev)
		}
	}
}

func (b *MemoryBus) deliver(topic string, sub *memorySub, ev models.Event) {
	var err error
	for attempt := 1; attempt <= b.cfg.MaxDeliver; attempt++ {
		if err = sub.handler(context.Background(), ev); err == nil {
			return
		}
		select {
		case <-b.closed:
			return
		case <-time.After(b.cfg.RedeliveryDelay):
		}
	}
	logger.Error("dropping event after delivery attempts exhausted",
		logger.String("topic", topic),
		logger.String("group", sub.group),
		logger.String("event_type", ev.Type),
		logger.String("ride_id", ev.RideID),
		logger.Err(err))
}

func (b *MemoryBus) partitionFor(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(b.cfg.Partitions))
}

// Close stops delivery. Buffered events that were not yet handled are
// dropped; the memory bus offers no durability.
func (b *MemoryBus) Close() {
	close(b.closed)
	b.wg.Wait()
}
