// Package server HTTP 服务装配
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kochabx/subook/internal/auth/token"
	"github.com/kochabx/subook/internal/config"
	"github.com/kochabx/subook/internal/middleware"
	"github.com/kochabx/subook/pkg/log"
)

// permitPaths 免认证路径
var permitPaths = []string{
	"/api/auth/login",
	"/api/auth/register",
	"/api/auth/ask-code",
	"/health",
	"/metrics",
}

// Registrar 路由注册方
type Registrar interface {
	Register(r gin.IRouter)
}

// Server 封装 gin 与 http.Server
type Server struct {
	config   config.ServerConfig
	engine   *gin.Engine
	server   *http.Server
	registry *prometheus.Registry
}

// New 创建 HTTP 服务并挂载全部路由
func New(cfg config.ServerConfig, tokens *token.Service, registrars ...Registrar) *Server {
	gin.SetMode(cfg.Mode)

	s := &Server{
		config:   cfg,
		engine:   gin.New(),
		registry: prometheus.NewRegistry(),
	}
	s.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s.engine.Use(
		middleware.Recovery(),
		middleware.Logger(middleware.LoggerConfig{SkipPaths: []string{"/health", "/metrics"}}),
		middleware.Cors(),
		middleware.Auth(middleware.AuthConfig{
			Service:     tokens,
			PermitPaths: permitPaths,
		}),
	)

	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	for _, r := range registrars {
		r.Register(s.engine)
	}

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.engine,
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
	}
	return s
}

// Run 启动服务并阻塞直至关闭
func (s *Server) Run() error {
	log.Info().Str("addr", s.config.Addr).Msg("http server starting")

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown 优雅关闭，等待存量请求结束
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("http server shutting down")
	return s.server.Shutdown(ctx)
}
