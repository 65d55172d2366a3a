// Package jwt 签名 Token 的编解码
package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kochabx/subook/pkg/tag"
)

// Claims 自定义 Claims，Subject 存用户名
type Claims struct {
	UserID int64  `json:"uid,omitempty"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Codec 负责 Token 的签发与解析
type Codec struct {
	config *Config
	now    func() time.Time
}

// Option Codec 选项
type Option func(*Codec)

// WithClock 注入时钟，便于测试
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		c.now = now
	}
}

// NewCodec 创建编解码器
func NewCodec(config *Config, opts ...Option) (*Codec, error) {
	if err := tag.ApplyDefaults(config); err != nil {
		return nil, err
	}
	if config.Secret == "" {
		return nil, ErrEmptySecret
	}

	c := &Codec{
		config: config,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// TTL 返回签发 Token 的有效期
func (c *Codec) TTL() time.Duration {
	return c.config.GetTTL()
}

// Issue 为用户签发带唯一 JTI 的 Token
func (c *Codec) Issue(userID int64, username, role string) (string, error) {
	now := c.now()
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   username,
			Issuer:    c.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.config.GetTTL())),
		},
	}

	token := jwt.NewWithClaims(c.config.GetSigningMethod(), claims)
	return token.SignedString([]byte(c.config.Secret))
}

// Parse 校验签名与有效期并返回 Claims
func (c *Codec) Parse(tokenString string) (*Claims, error) {
	return c.parse(tokenString,
		jwt.WithValidMethods([]string{c.config.SigningMethod}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	)
}

// Decode 校验签名但忽略有效期，返回 Claims
// 已过期的 Token 仍可据此取出过期时间和主体
func (c *Codec) Decode(tokenString string) (*Claims, error) {
	return c.parse(tokenString,
		jwt.WithValidMethods([]string{c.config.SigningMethod}),
		jwt.WithoutClaimsValidation(),
	)
}

func (c *Codec) parse(tokenString string, opts ...jwt.ParserOption) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return []byte(c.config.Secret), nil
	}, opts...)

	if err != nil {
		return nil, mapParseError(err)
	}
	if !token.Valid {
		return nil, ErrMalformedToken
	}
	return claims, nil
}

// mapParseError 将底层库错误收敛为本包的错误类型
func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpiredToken
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrBadSignature
	default:
		return ErrMalformedToken
	}
}
