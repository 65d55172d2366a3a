// Package oss MinIO 对象存储封装，存放轮播图和头像等静态资源
package oss

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/kochabx/subook/pkg/log"
	"github.com/kochabx/subook/pkg/tag"
)

var (
	ErrInvalidConfig   = errors.New("oss: invalid config")
	ErrEmptyObjectName = errors.New("oss: object name cannot be empty")
)

// Config 对象存储配置
type Config struct {
	Endpoint        string `json:"endpoint" mapstructure:"endpoint" default:"localhost:9000"`
	AccessKeyID     string `json:"access_key_id" mapstructure:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key" mapstructure:"secret_access_key"`
	Bucket          string `json:"bucket" mapstructure:"bucket" default:"subook"`
	UseSSL          bool   `json:"use_ssl" mapstructure:"use_ssl"`

	// 对外访问地址，为空时用 Endpoint 拼接
	PublicBaseURL string `json:"public_base_url" mapstructure:"public_base_url"`
}

// Store MinIO 对象存储
type Store struct {
	config *Config
	client *minio.Client
	logger *log.Logger
}

// Option Store 选项
type Option func(*Store)

// WithLogger 设置日志记录器
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// New 创建对象存储客户端并确保 bucket 存在
func New(ctx context.Context, cfg *Config, opts ...Option) (*Store, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}
	if err := tag.ApplyDefaults(cfg); err != nil {
		return nil, err
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	s := &Store{
		config: cfg,
		client: client,
		logger: log.G,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}

	s.logger.Debug().Str("endpoint", cfg.Endpoint).Str("bucket", cfg.Bucket).Msg("oss store created")
	return s, nil
}

func (s *Store) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.config.Bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.config.Bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("make bucket: %w", err)
	}
	return nil
}

// Put 上传对象，返回对外访问 URL
func (s *Store) Put(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	if objectName == "" {
		return "", ErrEmptyObjectName
	}

	_, err := s.client.PutObject(ctx, s.config.Bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", objectName, err)
	}

	return s.URL(objectName), nil
}

// Remove 删除对象
func (s *Store) Remove(ctx context.Context, objectName string) error {
	if objectName == "" {
		return ErrEmptyObjectName
	}
	return s.client.RemoveObject(ctx, s.config.Bucket, objectName, minio.RemoveObjectOptions{})
}

// Exists 检查对象是否存在
func (s *Store) Exists(ctx context.Context, objectName string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.config.Bucket, objectName, minio.StatObjectOptions{})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" || resp.Code == "NotFound" {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// URL 拼接对象的对外访问地址
func (s *Store) URL(objectName string) string {
	if s.config.PublicBaseURL != "" {
		return fmt.Sprintf("%s/%s/%s", s.config.PublicBaseURL, s.config.Bucket, objectName)
	}
	scheme := "http"
	if s.config.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.config.Endpoint, s.config.Bucket, objectName)
}
