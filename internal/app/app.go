// Package app 应用生命周期管理
package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kochabx/subook/pkg/log"
)

// Server 可被 Application 托管的服务
type Server interface {
	Run() error
	Shutdown(ctx context.Context) error
}

// CloseFunc 退出时需要执行的清理任务
type CloseFunc struct {
	Name    string
	Fn      func(ctx context.Context) error
	Timeout time.Duration
}

// Application 托管服务的启动、信号监听与收尾清理
type Application struct {
	servers         []Server
	closes          []CloseFunc
	signals         []os.Signal
	shutdownTimeout time.Duration
}

// Option 配置 Application
type Option func(*Application)

// WithServer 托管一个服务
func WithServer(s Server) Option {
	return func(a *Application) { a.servers = append(a.servers, s) }
}

// WithClose 注册清理任务，按注册顺序执行
func WithClose(name string, fn func(ctx context.Context) error, timeout time.Duration) Option {
	return func(a *Application) {
		a.closes = append(a.closes, CloseFunc{Name: name, Fn: fn, Timeout: timeout})
	}
}

// WithShutdownTimeout 设置服务关闭超时
func WithShutdownTimeout(d time.Duration) Option {
	return func(a *Application) { a.shutdownTimeout = d }
}

// New 创建 Application
func New(opts ...Option) *Application {
	a := &Application{
		signals:         []os.Signal{os.Interrupt, syscall.SIGTERM},
		shutdownTimeout: 15 * time.Second,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Start 运行全部服务，阻塞直至收到退出信号或某个服务出错
func (a *Application) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), a.signals...)
	defer stop()

	group, gctx := errgroup.WithContext(ctx)

	for _, srv := range a.servers {
		srv := srv
		group.Go(srv.Run)
		group.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	err := group.Wait()
	a.runCloses()

	if err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// runCloses 逐个执行清理任务，单个失败不影响其余
func (a *Application) runCloses() {
	for _, task := range a.closes {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Error().Any("panic", r).Str("task", task.Name).Msg("close task panicked")
				}
			}()

			timeout := task.Timeout
			if timeout <= 0 {
				timeout = 5 * time.Second
			}
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			if err := task.Fn(ctx); err != nil {
				log.Error().Err(err).Str("task", task.Name).Msg("close task failed")
				return
			}
			log.Info().Str("task", task.Name).Msg("close task done")
		}()
	}
}
