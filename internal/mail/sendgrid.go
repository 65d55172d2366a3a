package mail

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/kochabx/subook/pkg/log"
	"github.com/kochabx/subook/pkg/tag"
)

// Config SendGrid 配置
type Config struct {
	APIKey      string `json:"api_key" mapstructure:"api_key" validate:"required"`
	FromName    string `json:"from_name" mapstructure:"from_name" default:"subook"`
	FromAddress string `json:"from_address" mapstructure:"from_address" validate:"required,email"`
}

// SendGrid 基于 SendGrid 的邮件发送实现
type SendGrid struct {
	config *Config
	client *sendgrid.Client
	logger *log.Logger
}

// NewSendGrid 创建 SendGrid 发送器
func NewSendGrid(cfg *Config) (*SendGrid, error) {
	if err := tag.ApplyDefaults(cfg); err != nil {
		return nil, err
	}

	return &SendGrid{
		config: cfg,
		client: sendgrid.NewSendClient(cfg.APIKey),
		logger: log.G,
	}, nil
}

// Send 发送邮件
func (s *SendGrid) Send(ctx context.Context, msg *Message) error {
	if msg == nil || msg.To == "" {
		return ErrInvalidMessage
	}

	from := sgmail.NewEmail(s.config.FromName, s.config.FromAddress)
	to := sgmail.NewEmail("", msg.To)
	email := sgmail.NewSingleEmail(from, msg.Subject, to, msg.PlainBody, msg.HTMLBody)

	resp, err := s.client.SendWithContext(ctx, email)
	if err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("send mail to %s: status %d: %s", msg.To, resp.StatusCode, resp.Body)
	}

	s.logger.Debug().Str("to", msg.To).Str("subject", msg.Subject).Msg("mail sent")
	return nil
}

var _ Sender = (*SendGrid)(nil)
