package rpc

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Default connection tuning, applied when Options leaves a field zero.
const (
	DefaultConnectTimeout = 10 * time.Second
	DefaultCallTimeout    = 30 * time.Second
	DefaultNumRetries     = 2
)

// Options configures a connection and the client that drives it. Every field
// is passed through to the selected transport unchanged.
type Options struct {
	// ConnectTimeout bounds the initial dial/handshake.
	ConnectTimeout time.Duration
	// CallTimeout bounds a single request/response exchange.
	CallTimeout time.Duration
	// NumRetries is the default number of retries after a failed send.
	// Nil selects DefaultNumRetries; explicit zero disables retrying.
	// Overridable per call with WithRetries.
	NumRetries *int
	// Header is sent with the HTTP request or WebSocket handshake.
	Header http.Header
	// HTTPClient overrides the HTTP client used by http/https connections.
	HTTPClient *http.Client
	// RateLimit caps outbound calls per second; zero disables limiting.
	RateLimit rate.Limit
	// RateBurst is the limiter burst size; defaults to 1 when RateLimit is set.
	RateBurst int
	// Observer receives a callback after every completed call.
	Observer CallObserver
	// Logger receives debug-level call traces. Nil disables logging.
	Logger *zap.SugaredLogger
}

// Retries is a convenience for populating Options.NumRetries inline.
func Retries(n int) *int {
	return &n
}

func (o Options) withDefaults() Options {
	if o.ConnectTimeout == 0 {
		o.ConnectTimeout = DefaultConnectTimeout
	}
	if o.CallTimeout == 0 {
		o.CallTimeout = DefaultCallTimeout
	}
	if o.NumRetries == nil {
		n := DefaultNumRetries
		o.NumRetries = &n
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop().Sugar()
	}
	return o
}

// CallObserver is notified after each dispatched call, successful or not.
// internal/metrics provides a Prometheus-backed implementation.
type CallObserver interface {
	ObserveCall(method, api string, attempts int, duration time.Duration, err error)
}

// Connection is one bidirectional channel to a node. Implementations are not
// required to be safe for concurrent use; the Client serializes access.
type Connection interface {
	Connect(ctx context.Context) error
	// Send writes one request payload and returns the matching raw response.
	Send(ctx context.Context, payload []byte) ([]byte, error)
	Close() error
	URL() string
}

// newConnection selects a transport from the URL scheme: ws/wss pick the
// WebSocket transport, http/https the HTTP transport. Anything else is a
// configuration error.
func newConnection(rawURL string, opts Options) (Connection, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, &ConfigError{Reason: fmt.Sprintf("invalid node url %q: %v", rawURL, err)}
	}
	switch u.Scheme {
	case "ws", "wss":
		return newWebsocketConnection(rawURL, opts), nil
	case "http", "https":
		return newHTTPConnection(rawURL, opts), nil
	default:
		return nil, &ConfigError{Reason: fmt.Sprintf("unsupported url scheme %q: only ws(s) and http(s) connections are supported", u.Scheme)}
	}
}
