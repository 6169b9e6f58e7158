package rpc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConnectionSchemeSelection(t *testing.T) {
	tests := []struct {
		url  string
		want any
	}{
		{"ws://localhost:8090", &websocketConnection{}},
		{"wss://node.viz.cx/ws", &websocketConnection{}},
		{"http://localhost:8090", &httpConnection{}},
		{"https://node.viz.cx", &httpConnection{}},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			conn, err := newConnection(tt.url, Options{}.withDefaults())
			require.NoError(t, err)
			assert.IsType(t, tt.want, conn)
			assert.Equal(t, tt.url, conn.URL())
		})
	}
}

func TestNewConnectionRejectsUnknownScheme(t *testing.T) {
	for _, url := range []string{"ftp://node", "unix:///tmp/sock", "node.viz.cx"} {
		t.Run(url, func(t *testing.T) {
			_, err := newConnection(url, Options{}.withDefaults())
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
		})
	}
}

func TestAPIForMethod(t *testing.T) {
	api, ok := APIForMethod("broadcast_transaction_synchronous")
	require.True(t, ok)
	assert.Equal(t, "network_broadcast_api", api)

	_, ok = APIForMethod("definitely_not_registered")
	assert.False(t, ok)
}
