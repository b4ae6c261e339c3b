package lock

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/redis/go-redis/v9"
)

// RedisLocker obtains leases through bsm/redislock so that several
// server processes sharing one database also share record locks
type RedisLocker struct {
	client     *redislock.Client
	ttl        time.Duration
	wait       time.Duration
	retryDelay time.Duration
	prefix     string
}

// NewRedisLocker creates a RedisLocker on an existing redis client
func NewRedisLocker(rdb redis.UniversalClient, ttl, wait, retryDelay time.Duration, prefix string) *RedisLocker {
	return &RedisLocker{
		client:     redislock.New(rdb),
		ttl:        ttl,
		wait:       wait,
		retryDelay: retryDelay,
		prefix:     prefix,
	}
}

// Obtain retries with a linear backoff until the wait time elapses
func (l *RedisLocker) Obtain(ctx context.Context, key string) (Lock, error) {
	ctx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	lk, err := l.client.Obtain(ctx, l.prefix+key, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LinearBackoff(l.retryDelay),
	})
	if errors.Is(err, redislock.ErrNotObtained) || errors.Is(err, context.DeadlineExceeded) {
		return nil, shared.ErrConcurrencyConflict
	}
	if err != nil {
		return nil, shared.NewStorageError("obtain lock", err)
	}
	return &redisLock{lock: lk}, nil
}

type redisLock struct {
	lock *redislock.Lock
}

// Release gives the lease back. An expired lease is not an error:
// the surrounding transaction has already committed or rolled back.
func (r *redisLock) Release(ctx context.Context) error {
	err := r.lock.Release(ctx)
	if errors.Is(err, redislock.ErrLockNotHeld) {
		return nil
	}
	return err
}

var _ Locker = (*RedisLocker)(nil)
