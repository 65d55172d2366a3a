package jwt

import "errors"

var (
	// Token 解析相关错误
	ErrMalformedToken = errors.New("jwt: malformed token")
	ErrBadSignature   = errors.New("jwt: invalid signature")
	ErrExpiredToken   = errors.New("jwt: token expired")

	// 配置相关错误
	ErrEmptySecret = errors.New("jwt: secret cannot be empty")
)
