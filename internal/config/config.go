// Package config 应用配置
package config

import (
	"github.com/kochabx/subook/internal/auth/jwt"
	"github.com/kochabx/subook/internal/mail"
	"github.com/kochabx/subook/internal/store/db"
	"github.com/kochabx/subook/internal/store/oss"
	"github.com/kochabx/subook/internal/store/redis"
	"github.com/kochabx/subook/pkg/log"
)

// Config 应用全量配置
type Config struct {
	Server ServerConfig `json:"server" mapstructure:"server"`
	Log    LogConfig    `json:"log" mapstructure:"log"`
	JWT    jwt.Config   `json:"jwt" mapstructure:"jwt"`
	Redis  redis.Config `json:"redis" mapstructure:"redis"`
	DB     db.Config    `json:"db" mapstructure:"db"`
	OSS    oss.Config   `json:"oss" mapstructure:"oss"`
	Mail   mail.Config  `json:"mail" mapstructure:"mail"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Addr string `json:"addr" mapstructure:"addr" default:":8080"`
	Mode string `json:"mode" mapstructure:"mode" default:"release"` // gin 运行模式

	// 超时，秒
	ReadTimeout     int64 `json:"read_timeout" mapstructure:"read_timeout" default:"10"`
	WriteTimeout    int64 `json:"write_timeout" mapstructure:"write_timeout" default:"10"`
	ShutdownTimeout int64 `json:"shutdown_timeout" mapstructure:"shutdown_timeout" default:"15"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string         `json:"level" mapstructure:"level" default:"info"`
	ToFile bool           `json:"to_file" mapstructure:"to_file"`
	File   log.FileConfig `json:"file" mapstructure:"file"`
}
