// Package token 管理单点登录会话：签发、校验、注销
package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kochabx/subook/internal/auth/jwt"
	"github.com/kochabx/subook/internal/cache"
	"github.com/kochabx/subook/pkg/log"
)

const (
	// 在线会话键前缀，键为 livePrefix + 用户名，值为当前有效 Token
	livePrefix = "token:"

	// 黑名单键前缀，键为 blacklistPrefix + Token 原文
	blacklistPrefix = "blacklist:"
)

var (
	// ErrRevoked Token 已注销或会话不存在
	ErrRevoked = errors.New("token: revoked")

	// ErrSessionSuperseded 用户已在别处登录，旧 Token 作废
	ErrSessionSuperseded = errors.New("token: session superseded")

	// ErrCacheUnavailable 缓存不可用，校验一律拒绝
	ErrCacheUnavailable = errors.New("token: cache unavailable")
)

// Service 会话 Token 服务
// 同一用户同时只保留一个在线会话，后签发的 Token 覆盖先前的
type Service struct {
	codec *jwt.Codec
	cache cache.Cache
	now   func() time.Time
}

// Option Service 选项
type Option func(*Service)

// WithClock 注入时钟，便于测试
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService 创建 Token 服务
func NewService(codec *jwt.Codec, c cache.Cache, opts ...Option) *Service {
	s := &Service{
		codec: codec,
		cache: c,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue 签发 Token 并登记在线会话
// 会话写入失败时不返回 Token，避免发出无法注销的凭证
func (s *Service) Issue(ctx context.Context, userID int64, username, role string) (string, error) {
	tokenString, err := s.codec.Issue(userID, username, role)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	if err := s.cache.Set(ctx, livePrefix+username, tokenString, s.codec.TTL()); err != nil {
		log.Error().Err(err).Str("username", username).Msg("register live session failed")
		return "", fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}

	return tokenString, nil
}

// Validate 校验 Token，通过时返回 Claims
// 依次检查签名与有效期、黑名单、在线会话记录，任一缓存错误都按拒绝处理
func (s *Service) Validate(ctx context.Context, tokenString string) (*jwt.Claims, error) {
	claims, err := s.codec.Parse(tokenString)
	if err != nil {
		return nil, err
	}

	revoked, err := s.cache.Exists(ctx, blacklistPrefix+tokenString)
	if err != nil {
		log.Error().Err(err).Msg("blacklist lookup failed")
		return nil, fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	if revoked {
		return nil, ErrRevoked
	}

	live, err := s.cache.Get(ctx, livePrefix+claims.Subject)
	switch {
	case errors.Is(err, cache.ErrNotFound):
		return nil, ErrRevoked
	case err != nil:
		log.Error().Err(err).Str("username", claims.Subject).Msg("live session lookup failed")
		return nil, fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}

	if live != tokenString {
		return nil, ErrSessionSuperseded
	}

	return claims, nil
}

// Invalidate 注销 Token
// 先按剩余有效期写入黑名单，确认写入后才删除在线会话记录，
// 这样并发的校验要么看到黑名单，要么看到在线记录缺失，不会出现都看不到的窗口。
// 重复注销同一 Token 是幂等的。
func (s *Service) Invalidate(ctx context.Context, tokenString string) error {
	claims, err := s.codec.Decode(tokenString)
	if err != nil {
		return err
	}

	// 剩余有效期取自 Token 内嵌的过期时间，而不是会话记录的 TTL
	var ttl time.Duration
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Sub(s.now())
	}
	if ttl > 0 {
		if err := s.cache.Set(ctx, blacklistPrefix+tokenString, "1", ttl); err != nil {
			log.Error().Err(err).Str("username", claims.Subject).Msg("blacklist write failed")
			return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
		}
	}

	// 仅当在线记录仍指向本 Token 时才删除，避免误杀后登录的新会话
	live, err := s.cache.Get(ctx, livePrefix+claims.Subject)
	switch {
	case errors.Is(err, cache.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}

	if live != tokenString {
		return nil
	}

	if err := s.cache.Delete(ctx, livePrefix+claims.Subject); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return nil
}
