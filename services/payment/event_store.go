package payment

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// EventStore records processed webhook event IDs so redelivered events
// are applied exactly once. MarkProcessed reports whether this is the
// first time the event has been seen.
type EventStore interface {
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)
}

const processedEventPrefix = "stripe-event:"

// RedisEventStore implements EventStore with SETNX and a TTL; the SQL
// status-transition guard backs it up if Redis is flushed.
type RedisEventStore struct {
	Client *redis.Client
}

func (s *RedisEventStore) MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	return s.Client.SetNX(ctx, processedEventPrefix+eventID, "1", ttl).Result()
}

// MemoryEventStore is an in-process EventStore for tests.
type MemoryEventStore struct {
	mu   sync.Mutex
	seen map[string]bool
}

func NewMemoryEventStore() *MemoryEventStore {
	return &MemoryEventStore{seen: make(map[string]bool)}
}

func (s *MemoryEventStore) MarkProcessed(_ context.Context, eventID string, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen[eventID] {
		return false, nil
	}
	s.seen[eventID] = true
	return true, nil
}
