// Package cache 带 TTL 的字符串键值缓存抽象
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound 键不存在或已过期
var ErrNotFound = errors.New("cache: key not found")

// Cache 会话缓存接口
type Cache interface {
	// Set 写入键值，ttl 到期后键自动失效
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Get 读取键值，不存在时返回 ErrNotFound
	Get(ctx context.Context, key string) (string, error)

	// Exists 检查键是否存在
	Exists(ctx context.Context, key string) (bool, error)

	// Delete 删除键，键不存在时不报错
	Delete(ctx context.Context, key string) error
}
