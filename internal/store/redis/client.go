// Package redis Redis 客户端封装
package redis

import (
	"context"
	"runtime"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/kochabx/subook/pkg/log"
)

// Client Redis 统一客户端，按配置自动选择单机/集群/哨兵模式
type Client struct {
	client redis.UniversalClient
	config *Config
	logger *log.Logger
}

// Option 客户端选项
type Option func(*options)

type options struct {
	logger        *log.Logger
	enableTracing bool
	enableMetrics bool
}

// WithLogger 设置日志记录器
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithTracing 启用 OpenTelemetry tracing
func WithTracing() Option {
	return func(o *options) {
		o.enableTracing = true
	}
}

// WithMetrics 启用 OpenTelemetry metrics
func WithMetrics() Option {
	return func(o *options) {
		o.enableMetrics = true
	}
}

// New 创建 Redis 客户端并验证连通性
func New(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}
	if err := cfg.ApplyDefaults(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &options{logger: log.G}
	for _, opt := range opts {
		opt(o)
	}

	c := &Client{
		config: cfg,
		logger: o.logger,
		client: redis.NewUniversalClient(buildUniversalOptions(cfg)),
	}

	// 任一初始化步骤失败都回收连接
	var success bool
	defer func() {
		if !success {
			_ = c.client.Close()
		}
	}()

	if o.enableTracing {
		if err := redisotel.InstrumentTracing(c.client); err != nil {
			return nil, err
		}
	}
	if o.enableMetrics {
		if err := redisotel.InstrumentMetrics(c.client); err != nil {
			return nil, err
		}
	}

	if err := c.Ping(context.Background()); err != nil {
		return nil, err
	}

	success = true
	c.logger.Debug().Strs("addrs", cfg.Addrs).Msg("redis client created")
	return c, nil
}

func buildUniversalOptions(cfg *Config) *redis.UniversalOptions {
	poolSize := cfg.PoolSize
	if poolSize == 0 {
		poolSize = 10 * runtime.GOMAXPROCS(0)
	}

	return &redis.UniversalOptions{
		Addrs:      cfg.Addrs,
		MasterName: cfg.MasterName,
		Username:   cfg.Username,
		Password:   cfg.Password,
		DB:         cfg.DB,
		Protocol:   cfg.Protocol,

		DialTimeout:  time.Duration(cfg.DialTimeout) * time.Millisecond,
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Millisecond,

		PoolSize:     poolSize,
		MinIdleConns: cfg.MinIdleConns,
		PoolTimeout:  time.Duration(cfg.PoolTimeout) * time.Millisecond,
	}
}

// UniversalClient 获取底层客户端
func (c *Client) UniversalClient() redis.UniversalClient {
	return c.client
}

// Ping 测试连接
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close 关闭客户端
func (c *Client) Close() error {
	err := c.client.Close()
	c.logger.Debug().Msg("redis client closed")
	return err
}

// Stats 连接池统计
func (c *Client) Stats() *redis.PoolStats {
	return c.client.PoolStats()
}
