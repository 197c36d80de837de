package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// NotificationStore holds the per-fulfillment "already sent" marks and the
// rolling daily per-shopper rate counters for shipping notifications.
type NotificationStore interface {
	IsSent(ctx context.Context, fulfillmentKey string) (bool, error)
	DailyCount(ctx context.Context, shopperID string) (int64, error)
	MarkSent(ctx context.Context, fulfillmentKey, shopperID string) error
}

// RedisNotificationStore implements NotificationStore on a Redis client.
type RedisNotificationStore struct {
	client     *redis.Client
	markTTL    time.Duration
	counterTTL time.Duration
}

func NewRedisNotificationStore(client *redis.Client, markTTL, counterTTL time.Duration) *RedisNotificationStore {
	return &RedisNotificationStore{client: client, markTTL: markTTL, counterTTL: counterTTL}
}

func notificationMarkKey(fulfillmentKey string) string {
	return fmt.Sprintf("shipping_notification:%s", fulfillmentKey)
}

func notificationRateKey(shopperID string) string {
	return fmt.Sprintf("notification_rate:%s", shopperID)
}

// IsSent reports whether a notification was already sent for the
// fulfillment key. Presence of the key is the whole signal.
func (r *RedisNotificationStore) IsSent(ctx context.Context, fulfillmentKey string) (bool, error) {
	n, err := r.client.Exists(ctx, notificationMarkKey(fulfillmentKey)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DailyCount returns the shopper's notification count in the current
// rolling window. A missing counter reads as zero.
func (r *RedisNotificationStore) DailyCount(ctx context.Context, shopperID string) (int64, error) {
	val, err := r.client.Get(ctx, notificationRateKey(shopperID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return val, nil
}

// MarkSent writes the fulfillment mark and bumps the shopper's rate counter
// in one pipelined round trip. The counter TTL is set only when the INCR
// created the key, so the window rolls from the first notification.
func (r *RedisNotificationStore) MarkSent(ctx context.Context, fulfillmentKey, shopperID string) error {
	rateKey := notificationRateKey(shopperID)

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, notificationMarkKey(fulfillmentKey), "1", r.markTTL)
	incr := pipe.Incr(ctx, rateKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}

	if incr.Val() == 1 {
		return r.client.Expire(ctx, rateKey, r.counterTTL).Err()
	}
	return nil
}
