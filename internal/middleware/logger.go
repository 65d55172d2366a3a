package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kochabx/subook/pkg/log"
)

// LoggerConfig 日志中间件配置
type LoggerConfig struct {
	SkipPaths []string                // 跳过记录的路径
	SkipFunc  func(*gin.Context) bool // 动态跳过判断函数
	Logger    *log.Logger             // 自定义日志记录器
}

// Logger 创建请求日志中间件
func Logger(cfgs ...LoggerConfig) gin.HandlerFunc {
	cfg := LoggerConfig{}
	if len(cfgs) > 0 {
		cfg = cfgs[0]
	}
	if cfg.Logger == nil {
		cfg.Logger = log.G
	}

	matcher := NewPathMatcher(cfg.SkipPaths)

	return func(c *gin.Context) {
		if shouldSkip(c, matcher, cfg.SkipFunc) {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		event := cfg.Logger.Info().
			Int("status", c.Writer.Status()).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP())

		if query := c.Request.URL.RawQuery; query != "" {
			event = event.Str("query", query)
		}

		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.ByType(gin.ErrorTypePrivate).String())
		}

		event.Send()
	}
}
