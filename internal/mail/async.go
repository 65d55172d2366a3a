package mail

import (
	"context"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/kochabx/subook/pkg/log"
)

// Async 用协程池异步发送邮件，Send 提交后立即返回
type Async struct {
	sender  Sender
	pool    *ants.Pool
	timeout time.Duration
	logger  *log.Logger
}

// NewAsync 创建异步发送器，size 为并发上限
func NewAsync(sender Sender, size int) (*Async, error) {
	pool, err := ants.NewPool(size, ants.WithNonblocking(false))
	if err != nil {
		return nil, err
	}

	return &Async{
		sender:  sender,
		pool:    pool,
		timeout: 10 * time.Second,
		logger:  log.G,
	}, nil
}

// Send 提交发送任务，发送失败只记日志
func (a *Async) Send(ctx context.Context, msg *Message) error {
	if msg == nil || msg.To == "" {
		return ErrInvalidMessage
	}

	return a.pool.Submit(func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), a.timeout)
		defer cancel()

		if err := a.sender.Send(sendCtx, msg); err != nil {
			a.logger.Error().Err(err).Str("to", msg.To).Msg("async mail send failed")
		}
	})
}

// Close 等待在途任务结束并释放协程池
func (a *Async) Close() {
	a.pool.Release()
}

var _ Sender = (*Async)(nil)
