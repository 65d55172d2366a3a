package errors

import (
	goerrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(404, "user %s not found", "alice")
	assert.Equal(t, 404, err.Code)
	assert.Equal(t, "user alice not found", err.Message)
	assert.Contains(t, err.Error(), "code=404")
}

func TestWithCause(t *testing.T) {
	cause := goerrors.New("connection refused")
	err := Internal("cache unavailable").WithCause(cause)

	assert.Equal(t, cause, Unwrap(err))
	assert.Contains(t, err.Error(), "cause=connection refused")

	// 原始错误保持不变
	base := Internal("cache unavailable")
	assert.Nil(t, base.Cause())
}

func TestWithMetadata(t *testing.T) {
	base := BadRequest("invalid argument")
	err := base.WithMetadata(map[string]string{"field": "email"})

	assert.Equal(t, "email", err.Metadata["field"])
	assert.Empty(t, base.Metadata)
}

func TestIs(t *testing.T) {
	sentinel := Unauthorized("authentication failed")
	wrapped := sentinel.WithCause(goerrors.New("token expired"))

	assert.True(t, Is(wrapped, sentinel))
	assert.False(t, Is(Unauthorized("other message"), sentinel))
}

func TestFromError(t *testing.T) {
	assert.Nil(t, FromError(nil))

	typed := NotFound("missing")
	assert.Same(t, typed, FromError(typed))

	plain := FromError(goerrors.New("boom"))
	require.NotNil(t, plain)
	assert.Equal(t, UnknownCode, plain.Code)
	assert.Equal(t, "boom", plain.Message)
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, 500, "ignored"))

	cause := goerrors.New("disk full")
	err := Wrap(cause, 503, "storage degraded")
	assert.Equal(t, 503, err.Code)
	assert.True(t, Is(err, ServiceUnavailable("storage degraded")))
	assert.Equal(t, cause, Unwrap(err))
}
