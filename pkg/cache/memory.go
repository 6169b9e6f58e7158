package cache

import (
	"context"
	"sync"
	"time"
)

// Memory is the in-process Store. A janitor goroutine sweeps expired keys;
// reads also check expiry so a stale value is never returned between sweeps.
type Memory struct {
	mu          sync.RWMutex
	values      map[string][]byte
	expirations map[string]time.Time

	janitorStop chan struct{}
	janitorDone chan struct{}
	closeOnce   sync.Once
}

// NewMemory creates a memory store. janitorInterval <= 0 disables background
// cleanup.
func NewMemory(janitorInterval time.Duration) *Memory {
	m := &Memory{
		values:      make(map[string][]byte),
		expirations: make(map[string]time.Time),
		janitorStop: make(chan struct{}),
		janitorDone: make(chan struct{}),
	}
	if janitorInterval > 0 {
		go m.janitor(janitorInterval)
	} else {
		close(m.janitorDone)
	}
	return m
}

func (m *Memory) janitor(interval time.Duration) {
	defer close(m.janitorDone)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.evictExpired()
		case <-m.janitorStop:
			return
		}
	}
}

func (m *Memory) evictExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	for key, expiry := range m.expirations {
		if now.After(expiry) {
			delete(m.values, key)
			delete(m.expirations, key)
		}
	}
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if expiry, ok := m.expirations[key]; ok && time.Now().After(expiry) {
		return nil, ErrNotFound
	}
	value, ok := m.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return value, nil
}

func (m *Memory) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	if ttl > 0 {
		m.expirations[key] = time.Now().Add(ttl)
	} else {
		delete(m.expirations, key)
	}
	return nil
}

func (m *Memory) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.values, key)
		delete(m.expirations, key)
	}
	return nil
}

func (m *Memory) Ping(ctx context.Context) error {
	return nil
}

func (m *Memory) Close() error {
	m.closeOnce.Do(func() {
		close(m.janitorStop)
		<-m.janitorDone
	})
	return nil
}
