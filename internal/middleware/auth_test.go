package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/subook/internal/auth/jwt"
	"github.com/kochabx/subook/internal/auth/token"
	"github.com/kochabx/subook/internal/cache"
	"github.com/kochabx/subook/pkg/response"
)

func newAuthRouter(t *testing.T) (*gin.Engine, *token.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	codec, err := jwt.NewCodec(&jwt.Config{Secret: "test-secret", TTL: 60})
	require.NoError(t, err)
	service := token.NewService(codec, cache.NewMemory())

	r := gin.New()
	r.Use(Auth(AuthConfig{
		Service:     service,
		PermitPaths: []string{"/api/auth/login", "/health", "/public/**"},
	}))

	whoami := func(c *gin.Context) {
		claims, ok := GetClaims(c)
		require.True(t, ok)
		response.OK(c, claims.Subject)
	}
	r.GET("/api/auth/info", whoami)
	r.GET("/health", func(c *gin.Context) { response.OK(c, "ok") })
	r.POST("/api/auth/login", func(c *gin.Context) { response.OK(c, nil) })
	r.GET("/public/banner", func(c *gin.Context) { response.OK(c, nil) })
	r.GET("/api/adm/carousel", RequireRole("ADMIN"), func(c *gin.Context) { response.OK(c, nil) })

	return r, service
}

func doRequest(r *gin.Engine, method, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthPermitPaths(t *testing.T) {
	r, _ := newAuthRouter(t)

	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodPost, "/api/auth/login", "").Code)
	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/public/banner", "").Code)
}

func TestAuthMissingToken(t *testing.T) {
	r, _ := newAuthRouter(t)

	for _, header := range []string{"", "Bearer", "Bearer ", "Basic dXNlcg==", "token abc"} {
		w := doRequest(r, http.MethodGet, "/api/auth/info", header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestAuthValidToken(t *testing.T) {
	r, service := newAuthRouter(t)

	tokenString, err := service.Issue(context.Background(), 1, "alice", "USER")
	require.NoError(t, err)

	w := doRequest(r, http.MethodGet, "/api/auth/info", "Bearer "+tokenString)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice")
}

func TestAuthRevokedToken(t *testing.T) {
	r, service := newAuthRouter(t)
	ctx := context.Background()

	tokenString, err := service.Issue(ctx, 1, "alice", "USER")
	require.NoError(t, err)
	require.NoError(t, service.Invalidate(ctx, tokenString))

	w := doRequest(r, http.MethodGet, "/api/auth/info", "Bearer "+tokenString)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	// 拒绝原因不外泄
	assert.NotContains(t, w.Body.String(), "revoked")
}

func TestAuthSupersededToken(t *testing.T) {
	r, service := newAuthRouter(t)
	ctx := context.Background()

	first, err := service.Issue(ctx, 1, "alice", "USER")
	require.NoError(t, err)
	_, err = service.Issue(ctx, 1, "alice", "USER")
	require.NoError(t, err)

	w := doRequest(r, http.MethodGet, "/api/auth/info", "Bearer "+first)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	r, service := newAuthRouter(t)
	ctx := context.Background()

	userToken, err := service.Issue(ctx, 1, "alice", "USER")
	require.NoError(t, err)
	w := doRequest(r, http.MethodGet, "/api/adm/carousel", "Bearer "+userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	adminToken, err := service.Issue(ctx, 2, "root", "ADMIN")
	require.NoError(t, err)
	w = doRequest(r, http.MethodGet, "/api/adm/carousel", "Bearer "+adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPathMatcher(t *testing.T) {
	pm := NewPathMatcher([]string{"/health", "/api/public/**", "/static/*.css"})

	assert.True(t, pm.Match("/health"))
	assert.True(t, pm.Match("/api/public"))
	assert.True(t, pm.Match("/api/public/banner/1"))
	assert.True(t, pm.Match("/static/site.css"))

	assert.False(t, pm.Match("/healthz"))
	assert.False(t, pm.Match("/api/publicity"))
	assert.False(t, pm.Match("/static/site.js"))
}
