package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kochabx/subook/internal/auth/jwt"
	"github.com/kochabx/subook/internal/auth/token"
	"github.com/kochabx/subook/pkg/errors"
	"github.com/kochabx/subook/pkg/log"
	"github.com/kochabx/subook/pkg/response"
)

// claimsKey gin context 中存放 Claims 的键
const claimsKey = "auth/claims"

const bearerPrefix = "Bearer "

// AuthConfig 认证中间件配置
type AuthConfig struct {
	// Service 会话 Token 服务
	Service *token.Service

	// PermitPaths 免认证路径，语法见 PathMatcher
	PermitPaths []string

	// Logger 自定义日志记录器
	Logger *log.Logger
}

// Auth 创建认证中间件
// 拒绝时一律返回笼统的 401，不向客户端区分失败原因
func Auth(cfg AuthConfig) gin.HandlerFunc {
	matcher := NewPathMatcher(cfg.PermitPaths)
	logger := cfg.Logger
	if logger == nil {
		logger = log.G
	}

	return func(c *gin.Context) {
		if matcher.Match(c.Request.URL.Path) {
			c.Next()
			return
		}

		tokenString, ok := BearerToken(c)
		if !ok {
			unauthorized(c)
			return
		}

		claims, err := cfg.Service.Validate(c.Request.Context(), tokenString)
		if err != nil {
			// 具体原因只进日志
			logger.Debug().Err(err).
				Str("path", c.Request.URL.Path).
				Msg("token rejected")
			unauthorized(c)
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireRole 创建角色校验中间件，须挂在 Auth 之后
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := GetClaims(c)
		if !ok || claims.Role != role {
			response.FailWithStatus(c, http.StatusForbidden, errors.Forbidden("permission denied"))
			return
		}
		c.Next()
	}
}

// BearerToken 从 Authorization 头提取 Bearer Token
func BearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}

	tokenString := strings.TrimSpace(header[len(bearerPrefix):])
	if tokenString == "" {
		return "", false
	}
	return tokenString, true
}

// GetClaims 取出认证通过后存入的 Claims
func GetClaims(c *gin.Context) (*jwt.Claims, bool) {
	value, exists := c.Get(claimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*jwt.Claims)
	return claims, ok
}

func unauthorized(c *gin.Context) {
	response.FailWithStatus(c, http.StatusUnauthorized, errors.Unauthorized("authentication failed"))
}
