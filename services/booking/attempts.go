package booking

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// AttemptTracker persists the per-session booking attempt count so the
// attempt cap binds across requests, not just within one.
type AttemptTracker interface {
	Count(ctx context.Context, key string) (int, error)
	Record(ctx context.Context, key string) (int, error)
	Reset(ctx context.Context, key string) error
}

const bookingAttemptPrefix = "bookingattempts:"

// RedisAttemptTracker implements AttemptTracker with INCR and a TTL
// window. The count clears on a successful booking or when the window
// lapses.
type RedisAttemptTracker struct {
	Client *redis.Client
	TTL    time.Duration
}

func (t *RedisAttemptTracker) Count(ctx context.Context, key string) (int, error) {
	val, err := t.Client.Get(ctx, bookingAttemptPrefix+key).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(val)
}

func (t *RedisAttemptTracker) Record(ctx context.Context, key string) (int, error) {
	k := bookingAttemptPrefix + key
	n, err := t.Client.Incr(ctx, k).Result()
	if err != nil {
		return 0, err
	}
	if t.TTL > 0 {
		t.Client.Expire(ctx, k, t.TTL)
	}
	return int(n), nil
}

func (t *RedisAttemptTracker) Reset(ctx context.Context, key string) error {
	return t.Client.Del(ctx, bookingAttemptPrefix+key).Err()
}

// MemoryAttemptTracker is an in-process AttemptTracker for tests.
type MemoryAttemptTracker struct {
	mu     sync.Mutex
	counts map[string]int
}

func NewMemoryAttemptTracker() *MemoryAttemptTracker {
	return &MemoryAttemptTracker{counts: make(map[string]int)}
}

func (t *MemoryAttemptTracker) Count(_ context.Context, key string) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counts[key], nil
}

func (t *MemoryAttemptTracker) Record(_ context.Context, key string) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counts[key]++
	return t.counts[key], nil
}

func (t *MemoryAttemptTracker) Reset(_ context.Context, key string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.counts, key)
	return nil
}
