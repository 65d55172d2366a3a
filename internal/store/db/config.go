package db

import (
	"errors"
	"fmt"

	"github.com/kochabx/subook/pkg/tag"
)

var (
	ErrInvalidConfig     = errors.New("db: invalid config")
	ErrUnsupportedDriver = errors.New("db: unsupported driver")
	ErrNotInitialized    = errors.New("db: client not initialized")
)

// Driver 数据库驱动类型
type Driver string

const (
	DriverMySQL    Driver = "mysql"
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

// Config 数据库配置
type Config struct {
	Driver Driver `json:"driver" mapstructure:"driver" default:"mysql"`

	Host     string `json:"host" mapstructure:"host" default:"localhost"`
	Port     int    `json:"port" mapstructure:"port"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	Database string `json:"database" mapstructure:"database" default:"subook"`

	// SQLite 数据库文件路径
	Path string `json:"path" mapstructure:"path" default:"subook.db"`

	// 连接池
	MaxIdleConns    int   `json:"max_idle_conns" mapstructure:"max_idle_conns" default:"10"`
	MaxOpenConns    int   `json:"max_open_conns" mapstructure:"max_open_conns" default:"100"`
	ConnMaxLifetime int64 `json:"conn_max_lifetime" mapstructure:"conn_max_lifetime" default:"3600"` // 秒

	// 日志
	LogLevel int `json:"log_level" mapstructure:"log_level" default:"3"` // gorm logger level
}

// ApplyDefaults 应用默认值
func (c *Config) ApplyDefaults() error {
	if err := tag.ApplyDefaults(c); err != nil {
		return err
	}
	if c.Port == 0 {
		switch c.Driver {
		case DriverPostgres:
			c.Port = 5432
		default:
			c.Port = 3306
		}
	}
	return nil
}

// DSN 按驱动生成连接串
func (c *Config) DSN() (string, error) {
	switch c.Driver {
	case DriverMySQL:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.Username, c.Password, c.Host, c.Port, c.Database), nil
	case DriverPostgres:
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			c.Host, c.Port, c.Username, c.Password, c.Database), nil
	case DriverSQLite:
		return c.Path, nil
	default:
		return "", ErrUnsupportedDriver
	}
}
