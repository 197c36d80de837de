package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hazlamahedich/shop-sub002/models"
)

// CartStore is the Redis-backed cart and checkout-token state read and
// cleared by the order pipeline. Cart mutation is owned elsewhere.
type CartStore interface {
	GetCart(ctx context.Context, shopperID string) (*models.Cart, error)
	DeleteCart(ctx context.Context, shopperID string) error
	SaveCheckoutToken(ctx context.Context, token *models.CheckoutToken) error
	GetCheckoutToken(ctx context.Context, shopperID string) (*models.CheckoutToken, error)
	DeleteCheckoutToken(ctx context.Context, shopperID string) error
}

// RedisCartStore implements CartStore on a Redis client.
type RedisCartStore struct {
	client   *redis.Client
	tokenTTL time.Duration
}

func NewRedisCartStore(client *redis.Client, tokenTTL time.Duration) *RedisCartStore {
	return &RedisCartStore{client: client, tokenTTL: tokenTTL}
}

func cartKey(shopperID string) string {
	return fmt.Sprintf("cart:%s", shopperID)
}

func checkoutTokenKey(shopperID string) string {
	return fmt.Sprintf("checkout_token:%s", shopperID)
}

// GetCart returns the shopper's cart, or nil when none exists.
func (r *RedisCartStore) GetCart(ctx context.Context, shopperID string) (*models.Cart, error) {
	data, err := r.client.Get(ctx, cartKey(shopperID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var cart models.Cart
	if err := json.Unmarshal([]byte(data), &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *RedisCartStore) DeleteCart(ctx context.Context, shopperID string) error {
	return r.client.Del(ctx, cartKey(shopperID)).Err()
}

func (r *RedisCartStore) SaveCheckoutToken(ctx context.Context, token *models.CheckoutToken) error {
	data, err := json.Marshal(token)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, checkoutTokenKey(token.ShopperID), data, r.tokenTTL).Err()
}

// GetCheckoutToken returns the shopper's stored checkout token, or nil when
// none exists.
func (r *RedisCartStore) GetCheckoutToken(ctx context.Context, shopperID string) (*models.CheckoutToken, error) {
	data, err := r.client.Get(ctx, checkoutTokenKey(shopperID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var token models.CheckoutToken
	if err := json.Unmarshal([]byte(data), &token); err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *RedisCartStore) DeleteCheckoutToken(ctx context.Context, shopperID string) error {
	return r.client.Del(ctx, checkoutTokenKey(shopperID)).Err()
}
