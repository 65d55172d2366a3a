package cache

import (
	"context"
	"sync"
	"time"
)

// entry 内存缓存条目
type entry struct {
	value    string
	deadline time.Time // 零值表示永不过期
}

// Memory 基于 map 的内存缓存，读取时惰性清理过期键
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// MemoryOption Memory 选项
type MemoryOption func(*Memory)

// WithMemoryClock 注入时钟，便于测试
func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(m *Memory) {
		m.now = now
	}
}

// NewMemory 创建内存缓存
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		entries: make(map[string]entry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	var deadline time.Time
	if ttl > 0 {
		deadline = m.now().Add(ttl)
	}

	m.mu.Lock()
	m.entries[key] = entry{value: value, deadline: deadline}
	m.mu.Unlock()
	return nil
}

func (m *Memory) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return "", ErrNotFound
	}
	if m.expired(e) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return "", ErrNotFound
	}
	return e.value, nil
}

func (m *Memory) Exists(ctx context.Context, key string) (bool, error) {
	_, err := m.Get(ctx, key)
	if err == ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

func (m *Memory) expired(e entry) bool {
	return !e.deadline.IsZero() && !m.now().Before(e.deadline)
}

var _ Cache = (*Memory)(nil)
