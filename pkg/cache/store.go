// Package cache provides a small TTL key-value store used to cache chain
// reads (account lookups, dynamic properties) between RPC calls. Two backends
// are available: an in-process map with a background janitor, and Redis for
// processes that share a cache.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a key is absent or expired.
var ErrNotFound = errors.New("cache: not found")

// Store is the backend-agnostic cache interface. Implementations are safe for
// concurrent use.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores a value; ttl <= 0 means no expiration.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
	Close() error
}

// Backend selects a cache implementation.
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendRedis  Backend = "redis"
)

// Config selects and tunes a backend.
type Config struct {
	Backend Backend
	// RedisURL is required for the redis backend,
	// e.g. redis://localhost:6379/0.
	RedisURL string
	// JanitorInterval controls expired-key sweeps of the memory backend.
	// Zero selects the default of 30s.
	JanitorInterval time.Duration
}

// New builds a Store from config.
func New(cfg Config) (Store, error) {
	switch cfg.Backend {
	case BackendMemory, "":
		interval := cfg.JanitorInterval
		if interval == 0 {
			interval = 30 * time.Second
		}
		return NewMemory(interval), nil
	case BackendRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("cache: redis URL is required for the redis backend")
		}
		return NewRedis(cfg.RedisURL)
	default:
		return nil, fmt.Errorf("cache: unsupported backend %q (supported: %s, %s)", cfg.Backend, BackendMemory, BackendRedis)
	}
}
