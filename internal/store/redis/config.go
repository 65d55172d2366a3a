package redis

import (
	"errors"

	"github.com/kochabx/subook/pkg/tag"
)

var (
	ErrInvalidConfig = errors.New("redis: invalid config")
	ErrEmptyAddrs    = errors.New("redis: addrs cannot be empty")
)

// Config Redis 连接配置，单机/集群/哨兵模式按地址和 MasterName 自动识别
type Config struct {
	// 地址列表
	// 单机: ["localhost:6379"]，集群: 多个节点地址，哨兵: 哨兵地址
	Addrs []string `json:"addrs" mapstructure:"addrs" default:"localhost:6379"`

	// 哨兵模式主节点名称，非空即为哨兵模式
	MasterName string `json:"master_name" mapstructure:"master_name"`

	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	DB       int    `json:"db" mapstructure:"db"`

	// RESP 协议版本
	Protocol int `json:"protocol" mapstructure:"protocol" default:"3"`

	// 超时，毫秒
	DialTimeout  int64 `json:"dial_timeout" mapstructure:"dial_timeout" default:"5000"`
	ReadTimeout  int64 `json:"read_timeout" mapstructure:"read_timeout" default:"3000"`
	WriteTimeout int64 `json:"write_timeout" mapstructure:"write_timeout" default:"3000"`

	// 连接池
	PoolSize     int   `json:"pool_size" mapstructure:"pool_size"` // 0 表示 10 * GOMAXPROCS
	MinIdleConns int   `json:"min_idle_conns" mapstructure:"min_idle_conns"`
	PoolTimeout  int64 `json:"pool_timeout" mapstructure:"pool_timeout" default:"4000"` // 毫秒
}

// ApplyDefaults 应用默认值
func (c *Config) ApplyDefaults() error {
	return tag.ApplyDefaults(c)
}

// Validate 校验配置
func (c *Config) Validate() error {
	if len(c.Addrs) == 0 {
		return ErrEmptyAddrs
	}
	return nil
}
