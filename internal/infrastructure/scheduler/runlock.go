package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const lockKeyPrefix = "catalog:synclock:"

// RunLock serializes job runs across process instances. Acquire returns
// false when another holder owns the lock; the lease expires on its own
// after the TTL, so a crashed holder cannot block the job forever.
type RunLock interface {
	Acquire(ctx context.Context, job string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, job string) error
}

// RedisRunLock implements RunLock with a Redis SETNX lease.
// Suitable for distributed deployments where multiple instances
// run the same schedules.
type RedisRunLock struct {
	client *redis.Client
	holder string
}

// NewRedisRunLock creates a run lock backed by the given Redis client
func NewRedisRunLock(client *redis.Client) *RedisRunLock {
	return &RedisRunLock{
		client: client,
		holder: uuid.NewString(),
	}
}

// Acquire takes the lease for a job if nobody holds it
func (l *RedisRunLock) Acquire(ctx context.Context, job string, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, lockKeyPrefix+job, l.holder, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire run lock %s: %w", job, err)
	}
	return ok, nil
}

// Release drops the lease, but only if this instance still holds it;
// an expired lease taken over by another instance is left alone
func (l *RedisRunLock) Release(ctx context.Context, job string) error {
	key := lockKeyPrefix + job
	value, err := l.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("release run lock %s: %w", job, err)
	}
	if value != l.holder {
		return nil
	}
	if err := l.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("release run lock %s: %w", job, err)
	}
	return nil
}

// InMemoryRunLock implements RunLock for single-instance deployments
// and tests. Leases expire by timestamp, mirroring the Redis behavior.
type InMemoryRunLock struct {
	mu     sync.Mutex
	leases map[string]time.Time
}

// NewInMemoryRunLock creates an in-process run lock
func NewInMemoryRunLock() *InMemoryRunLock {
	return &InMemoryRunLock{leases: make(map[string]time.Time)}
}

// Acquire takes the lease for a job if nobody holds an unexpired one
func (l *InMemoryRunLock) Acquire(_ context.Context, job string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if expiry, ok := l.leases[job]; ok && time.Now().Before(expiry) {
		return false, nil
	}
	l.leases[job] = time.Now().Add(ttl)
	return true, nil
}

// Release drops the lease for a job
func (l *InMemoryRunLock) Release(_ context.Context, job string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.leases, job)
	return nil
}

// Interface conformance
var (
	_ RunLock = (*RedisRunLock)(nil)
	_ RunLock = (*InMemoryRunLock)(nil)
)
