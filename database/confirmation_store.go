package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hazlamahedich/shop-sub002/models"
)

// ConfirmationStore caches confirmation results by (shopper, order) so the
// webhook handler is safe under at-least-once delivery, and keeps an
// independent shopper-to-order reference for support lookups.
type ConfirmationStore interface {
	GetConfirmation(ctx context.Context, shopperID string, orderID int64) (*models.ConfirmationResult, error)
	SaveConfirmation(ctx context.Context, result *models.ConfirmationResult) error
	SaveOrderReference(ctx context.Context, ref *models.OrderReference) error
}

// RedisConfirmationStore implements ConfirmationStore on a Redis client.
type RedisConfirmationStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisConfirmationStore(client *redis.Client, ttl time.Duration) *RedisConfirmationStore {
	return &RedisConfirmationStore{client: client, ttl: ttl}
}

func confirmationKey(shopperID string, orderID int64) string {
	return fmt.Sprintf("order_confirmation:%s:%d", shopperID, orderID)
}

func orderReferenceKey(shopperID string, orderID int64) string {
	return fmt.Sprintf("order_reference:%s:%d", shopperID, orderID)
}

// GetConfirmation returns the cached result for a (shopper, order) pair, or
// nil when the order has not been confirmed yet.
func (r *RedisConfirmationStore) GetConfirmation(ctx context.Context, shopperID string, orderID int64) (*models.ConfirmationResult, error) {
	data, err := r.client.Get(ctx, confirmationKey(shopperID, orderID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var result models.ConfirmationResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *RedisConfirmationStore) SaveConfirmation(ctx context.Context, result *models.ConfirmationResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, confirmationKey(result.ShopperID, result.OrderID), data, r.ttl).Err()
}

func (r *RedisConfirmationStore) SaveOrderReference(ctx context.Context, ref *models.OrderReference) error {
	data, err := json.Marshal(ref)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, orderReferenceKey(ref.ShopperID, ref.OrderID), data, r.ttl).Err()
}
