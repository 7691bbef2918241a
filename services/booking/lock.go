package booking

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// SessionLock serializes booking attempts: exactly one in-flight booking
// per session. Acquire returns false when the lock is already held.
type SessionLock interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

const bookingLockPrefix = "bookinglock:"

// RedisSessionLock implements SessionLock with SETNX. The TTL bounds how
// long a crashed client can wedge the session.
type RedisSessionLock struct {
	Client *redis.Client
}

func (l *RedisSessionLock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return l.Client.SetNX(ctx, bookingLockPrefix+key, "1", ttl).Result()
}

func (l *RedisSessionLock) Release(ctx context.Context, key string) error {
	return l.Client.Del(ctx, bookingLockPrefix+key).Err()
}

// MemorySessionLock is an in-process SessionLock for tests.
type MemorySessionLock struct {
	mu   sync.Mutex
	held map[string]bool
}

func NewMemorySessionLock() *MemorySessionLock {
	return &MemorySessionLock{held: make(map[string]bool)}
}

func (l *MemorySessionLock) Acquire(_ context.Context, key string, _ time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] {
		return false, nil
	}
	l.held[key] = true
	return true, nil
}

func (l *MemorySessionLock) Release(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, key)
	return nil
}
