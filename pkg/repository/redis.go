package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/bookshop/pkg/config"
	"github.com/example/bookshop/pkg/models"
	"github.com/go-redis/redis/v8"
)

type RedisRepository struct {
	client *redis.Client
	config *config.RedisConfig
}

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

func (r *RedisRepository) Del(ctx context.Context, keys ...string) error {
	return r.client.Del(ctx, keys...).Err()
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

func (r *RedisRepository) Close() error {
	return r.client.Close()
}

func itemKey(id string) string {
	return fmt.Sprintf("item:%s", id)
}

func itemSlugKey(slug string) string {
	return fmt.Sprintf("item:slug:%s", slug)
}

// CacheItem stores the item under both its id and slug keys. Stock in the
// cached copy goes stale between invalidations; the authoritative check is
// always the locked reservation path.
func (r *RedisRepository) CacheItem(ctx context.Context, item *models.Item) error {
	ttl := r.config.ItemTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if err := r.SetJSON(ctx, itemKey(item.ID), item, ttl); err != nil {
		return err
	}
	return r.SetJSON(ctx, itemSlugKey(item.Slug), item, ttl)
}

func (r *RedisRepository) GetItemCache(ctx context.Context, itemID string) (*models.Item, error) {
	var item models.Item
	if err := r.GetJSON(ctx, itemKey(itemID), &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *RedisRepository) GetItemCacheBySlug(ctx context.Context, slug string) (*models.Item, error) {
	var item models.Item
	if err := r.GetJSON(ctx, itemSlugKey(slug), &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *RedisRepository) InvalidateItem(ctx context.Context, itemID, slug string) error {
	return r.Del(ctx, itemKey(itemID), itemSlugKey(slug))
}
