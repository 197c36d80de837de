package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// PollingLock is the per-merchant mutual-exclusion token serializing poll
// cycles. It is set with SETNX semantics and self-expires rather than being
// released explicitly, so a crashed poll worker cannot deadlock future
// cycles. The lock is not renewed mid-poll; a cycle outliving the TTL can
// race a concurrent one, which the idempotent reconciliation absorbs.
type PollingLock interface {
	Acquire(ctx context.Context, merchantID string) (bool, error)
}

// RedisPollingLock implements PollingLock on a Redis client.
type RedisPollingLock struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisPollingLock(client *redis.Client, ttl time.Duration) *RedisPollingLock {
	return &RedisPollingLock{client: client, ttl: ttl}
}

func pollingLockKey(merchantID string) string {
	return fmt.Sprintf("polling_lock:%s", merchantID)
}

// Acquire attempts an atomic set-if-absent. It returns false when another
// poll cycle already holds the lock.
func (r *RedisPollingLock) Acquire(ctx context.Context, merchantID string) (bool, error) {
	return r.client.SetNX(ctx, pollingLockKey(merchantID), "1", r.ttl).Result()
}
