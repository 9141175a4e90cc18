package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/example/shophub/pkg/config"
	"github.com/example/shophub/pkg/models"
	"github.com/go-redis/redis/v8"
)

// RedisRepository is the key-value blob store: per-user cart blobs
// plus a short-lived catalog cache.
type RedisRepository struct {
	client *redis.Client
	config *config.RedisConfig
}

const productCacheTTL = 5 * time.Minute

func NewRedisRepository(cfg *config.RedisConfig) *RedisRepository {
	return &RedisRepository{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
			PoolSize: cfg.PoolSize,
		}),
		config: cfg,
	}
}

func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}

func (r *RedisRepository) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, expiration).Err()
}

func (r *RedisRepository) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), dest)
}

func (r *RedisRepository) Del(ctx context.Context, keys ...string) error {
	return r.client.Del(ctx, keys...).Err()
}

func cartKey(userID string) string {
	return fmt.Sprintf("cart:%s", userID)
}

// LoadCart returns the user's cart blob. A missing key or a blob that
// no longer parses yields an empty cart, never an error: carts fail
// closed to empty.
func (r *RedisRepository) LoadCart(ctx context.Context, userID string) (*models.Cart, error) {
	empty := &models.Cart{UserID: userID}

	data, err := r.client.Get(ctx, cartKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return empty, nil
	}
	if err != nil {
		return nil, err
	}

	var cart models.Cart
	if err := json.Unmarshal([]byte(data), &cart); err != nil {
		return empty, nil
	}
	cart.UserID = userID
	return &cart, nil
}

// SaveCart persists the cart blob without expiration; like the rest
// of the storefront state it lives until explicitly cleared.
func (r *RedisRepository) SaveCart(ctx context.Context, cart *models.Cart) error {
	return r.SetJSON(ctx, cartKey(cart.UserID), cart, 0)
}

func (r *RedisRepository) DeleteCart(ctx context.Context, userID string) error {
	return r.client.Del(ctx, cartKey(userID)).Err()
}

// Catalog cache for the unfiltered product listing.

const productCacheKey = "products:all"

func (r *RedisRepository) CacheProducts(ctx context.Context, products []models.Product) error {
	return r.SetJSON(ctx, productCacheKey, products, productCacheTTL)
}

func (r *RedisRepository) GetCachedProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.GetJSON(ctx, productCacheKey, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *RedisRepository) InvalidateProducts(ctx context.Context) error {
	return r.client.Del(ctx, productCacheKey).Err()
}
