package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Config JWT 配置
type Config struct {
	// 签名密钥，必需
	Secret string `json:"secret" mapstructure:"secret" validate:"required"`

	// 签名算法，仅支持 HMAC 族
	SigningMethod string `json:"signing_method" mapstructure:"signing_method" default:"HS256"`

	// Token 有效期，秒
	TTL int64 `json:"ttl" mapstructure:"ttl" default:"3600" validate:"gt=0"`

	// 标准 Claims
	Issuer string `json:"issuer" mapstructure:"issuer" default:"subook"`
}

// GetSigningMethod 获取签名方法
func (c *Config) GetSigningMethod() jwt.SigningMethod {
	switch c.SigningMethod {
	case "HS384":
		return jwt.SigningMethodHS384
	case "HS512":
		return jwt.SigningMethodHS512
	default:
		return jwt.SigningMethodHS256
	}
}

// GetTTL 获取 Token 有效期
func (c *Config) GetTTL() time.Duration {
	return time.Duration(c.TTL) * time.Second
}
