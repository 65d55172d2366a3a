// Package mail 邮件发送
package mail

import (
	"context"
	"errors"
)

var ErrInvalidMessage = errors.New("mail: invalid message")

// Message 一封待发送的邮件
type Message struct {
	To        string
	Subject   string
	PlainBody string
	HTMLBody  string
}

// Sender 邮件发送接口
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}
