package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestMemorySetGet(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", "v", 0))

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	_, err = m.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryExpiry(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	m := NewMemory(WithMemoryClock(clock.Now))
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", "v", time.Minute))

	clock.Advance(59 * time.Second)
	_, err := m.Get(ctx, "k")
	require.NoError(t, err)

	clock.Advance(time.Second)
	_, err = m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)

	ok, err := m.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryDelete(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", "v", 0))
	require.NoError(t, m.Delete(ctx, "k"))

	_, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)

	// 删除不存在的键不报错
	assert.NoError(t, m.Delete(ctx, "k"))
}

func TestMemoryOverwrite(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	m := NewMemory(WithMemoryClock(clock.Now))
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", "v1", time.Second))
	require.NoError(t, m.Set(ctx, "k", "v2", time.Minute))

	clock.Advance(30 * time.Second)
	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v2", got)
}
