package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prasetya/ridelink/internal/pkg/constants"
	"github.com/prasetya/ridelink/internal/pkg/database"
	"github.com/prasetya/ridelink/internal/pkg/errs"
	"github.com/prasetya/ridelink/services/notification"
)

type redisDedupeStore struct {
	redis *database.RedisClient
	ttl   time.Duration
}

// NewRedisDedupeStore creates a dedupe store backed by redis SETNX keys.
// Entries expire after the TTL; an event redelivered later than that is
// notified again, which is the accepted trade-off for a bounded keyspace.
func NewRedisDedupeStore(redis *database.RedisClient, ttl time.Duration) notification.DedupeStore {
	return &redisDedupeStore{redis: redis, ttl: ttl}
}

func (s *redisDedupeStore) MarkSeen(ctx context.Context, eventType, rideID string) error {
	key := fmt.Sprintf(constants.KeyNotifySeen, eventType, rideID)
	first, err := s.redis.SetNX(ctx, key, "1", s.ttl)
	if err != nil {
		return fmt.Errorf("failed to mark event seen: %w", err)
	}
	if !first {
		return fmt.Errorf("%w: %s for ride %s", errs.ErrDuplicateEvent, eventType, rideID)
	}
	return nil
}

type memoryDedupeStore struct {
	mu   sync.Mutex
	seen map[string]time.Time
	ttl  time.Duration
	now  func() time.Time
}

// NewMemoryDedupeStore creates an in-process dedupe store for tests and
// single-instance deployments.
func NewMemoryDedupeStore(ttl time.Duration) notification.DedupeStore {
	return &memoryDedupeStore{
		seen: make(map[string]time.Time),
		ttl:  ttl,
		now:  time.Now,
	}
}

func (s *memoryDedupeStore) MarkSeen(ctx context.Context, eventType, rideID string) error {
	key := eventType + ":" + rideID
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if at, ok := s.seen[key]; ok && (s.ttl <= 0 || now.Sub(at) < s.ttl) {
		return fmt.Errorf("%w: %s for ride %s", errs.ErrDuplicateEvent, eventType, rideID)
	}
	s.seen[key] = now
	return nil
}
