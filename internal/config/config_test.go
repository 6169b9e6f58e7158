package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, "wss://node.viz.cx/ws", cfg.NodeURL)
	assert.Equal(t, 2, cfg.RPC.NumRetries)
	assert.Equal(t, 10*time.Second, cfg.RPC.ConnectTimeout)
	assert.Equal(t, 30*time.Second, cfg.RPC.CallTimeout)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 5*time.Minute, cfg.Cache.AccountTTL)
	assert.Equal(t, ":8080", cfg.Exporter.HTTPAddr)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("VIZ_ENV", "prod")
	t.Setenv("VIZ_NODE_URL", "https://api.viz.world")
	t.Setenv("VIZ_DEFAULT_ACCOUNT", "alice")
	t.Setenv("VIZ_RPC_NUM_RETRIES", "5")
	t.Setenv("VIZ_CACHE_BACKEND", "redis")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProd())
	assert.Equal(t, "https://api.viz.world", cfg.NodeURL)
	assert.Equal(t, "alice", cfg.DefaultAccount)
	assert.Equal(t, 5, cfg.RPC.NumRetries)
	assert.Equal(t, "redis", cfg.Cache.Backend)
}

func TestLoadRejectsBadNodeURL(t *testing.T) {
	t.Setenv("VIZ_NODE_URL", "ftp://node.viz.cx")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported scheme")
}

func TestLoadRejectsBadCacheBackend(t *testing.T) {
	t.Setenv("VIZ_CACHE_BACKEND", "memcached")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VIZ_CACHE_BACKEND")
}

func TestLoadRejectsNegativeRetries(t *testing.T) {
	t.Setenv("VIZ_RPC_NUM_RETRIES", "-1")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VIZ_RPC_NUM_RETRIES")
}
