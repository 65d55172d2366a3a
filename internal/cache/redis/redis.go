// Package redis 基于 Redis 的缓存实现
package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kochabx/subook/internal/cache"
)

// Cache Redis 缓存适配器
type Cache struct {
	client redis.UniversalClient
}

// New 创建 Redis 缓存
func New(client redis.UniversalClient) *Cache {
	return &Cache{client: client}
}

func (c *Cache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	value, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", cache.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (c *Cache) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

var _ cache.Cache = (*Cache)(nil)
