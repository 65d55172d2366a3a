// Package db GORM 数据库客户端封装
package db

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kochabx/subook/pkg/log"
)

// Client 数据库客户端
type Client struct {
	config *Config
	db     *gorm.DB
	sqlDB  *sql.DB
	logger *log.Logger
}

// Option 客户端选项
type Option func(*Client)

// WithLogger 设置日志记录器
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New 创建数据库客户端并验证连通性
func New(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}
	if err := cfg.ApplyDefaults(); err != nil {
		return nil, err
	}

	c := &Client{
		config: cfg,
		logger: log.G,
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.connect(); err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Ping(pingCtx); err != nil {
		_ = c.Close()
		return nil, err
	}

	c.logger.Debug().Str("driver", string(cfg.Driver)).Msg("database client created")
	return c, nil
}

func (c *Client) connect() error {
	dialector, err := c.dialector()
	if err != nil {
		return err
	}

	db, err := gorm.Open(dialector, c.gormConfig())
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	sqlDB.SetMaxIdleConns(c.config.MaxIdleConns)
	sqlDB.SetMaxOpenConns(c.config.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(c.config.ConnMaxLifetime) * time.Second)

	c.db = db
	c.sqlDB = sqlDB
	return nil
}

func (c *Client) dialector() (gorm.Dialector, error) {
	dsn, err := c.config.DSN()
	if err != nil {
		return nil, err
	}

	switch c.config.Driver {
	case DriverMySQL:
		return mysql.Open(dsn), nil
	case DriverPostgres:
		return postgres.Open(dsn), nil
	case DriverSQLite:
		return sqlite.Open(dsn), nil
	default:
		return nil, ErrUnsupportedDriver
	}
}

func (c *Client) gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger: logger.New(&gormLogWriter{logger: c.logger}, logger.Config{
			LogLevel:                  logger.LogLevel(c.config.LogLevel),
			SlowThreshold:             200 * time.Millisecond,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		}),
	}
}

// DB 获取 GORM 实例
func (c *Client) DB() *gorm.DB {
	return c.db
}

// AutoMigrate 迁移数据表
func (c *Client) AutoMigrate(models ...any) error {
	return c.db.AutoMigrate(models...)
}

// Ping 测试连接
func (c *Client) Ping(ctx context.Context) error {
	if c.sqlDB == nil {
		return ErrNotInitialized
	}
	return c.sqlDB.PingContext(ctx)
}

// Close 关闭连接
func (c *Client) Close() error {
	if c.sqlDB != nil {
		return c.sqlDB.Close()
	}
	return nil
}

// Stats 连接池统计
func (c *Client) Stats() sql.DBStats {
	if c.sqlDB == nil {
		return sql.DBStats{}
	}
	return c.sqlDB.Stats()
}

// gormLogWriter 适配 zerolog 到 GORM logger.Writer
type gormLogWriter struct {
	logger *log.Logger
}

func (w *gormLogWriter) Printf(format string, args ...any) {
	w.logger.Info().Msgf(format, args...)
}
