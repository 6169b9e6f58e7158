package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySetGetDel(t *testing.T) {
	m := NewMemory(0)
	defer m.Close()
	ctx := context.Background()

	_, err := m.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Set(ctx, "k", []byte("v"), 0))
	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, m.Del(ctx, "k"))
	_, err = m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryExpiry(t *testing.T) {
	m := NewMemory(0)
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", []byte("v"), 10*time.Millisecond))
	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	time.Sleep(20 * time.Millisecond)
	_, err = m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryOverwriteClearsTTL(t *testing.T) {
	m := NewMemory(0)
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", []byte("v1"), 10*time.Millisecond))
	require.NoError(t, m.Set(ctx, "k", []byte("v2"), 0))

	time.Sleep(20 * time.Millisecond)
	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got)
}

func TestMemoryCloseIdempotent(t *testing.T) {
	m := NewMemory(time.Minute)
	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
}

func TestMemoryCloseConcurrent(t *testing.T) {
	m := NewMemory(time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, m.Close())
		}()
	}
	wg.Wait()
}

func TestNewFactory(t *testing.T) {
	store, err := New(Config{Backend: BackendMemory})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = New(Config{})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, store)
	require.NoError(t, store.Close())

	_, err = New(Config{Backend: BackendRedis})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis URL")

	_, err = New(Config{Backend: "memcached"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported backend")
}
