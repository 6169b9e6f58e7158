package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Client dispatches JSON-RPC calls to a graphene-style node over a single
// connection. Calls are synchronous; a mutex serializes full request/response
// round trips so concurrent callers never interleave on the socket. The lock
// covers retries and is released on every exit path.
type Client struct {
	conn    Connection
	opts    Options
	mu      sync.Mutex
	nextID  atomic.Uint64
	limiter *rate.Limiter
	log     *zap.SugaredLogger
}

// Dial selects a transport from the URL scheme, establishes the connection
// and returns a ready client.
func Dial(ctx context.Context, rawURL string, opts Options) (*Client, error) {
	opts = opts.withDefaults()
	conn, err := newConnection(rawURL, opts)
	if err != nil {
		return nil, err
	}
	dialCtx, cancel := context.WithTimeout(ctx, opts.ConnectTimeout)
	defer cancel()
	if err := conn.Connect(dialCtx); err != nil {
		return nil, &TransportError{URL: rawURL, Attempts: 1, Err: err}
	}
	return NewClient(conn, opts), nil
}

// NewClient wraps an already-constructed connection. Used by Dial and by
// tests that inject a fake transport.
func NewClient(conn Connection, opts Options) *Client {
	opts = opts.withDefaults()
	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(opts.RateLimit, burst)
	}
	return &Client{
		conn:    conn,
		opts:    opts,
		limiter: limiter,
		log:     opts.Logger,
	}
}

// Close shuts down the underlying connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.Close()
}

// URL reports the node endpoint this client talks to.
func (c *Client) URL() string {
	return c.conn.URL()
}

type callConfig struct {
	api     string
	retries int
}

// CallOption adjusts a single Call.
type CallOption func(*callConfig)

// WithAPI overrides the api namespace instead of consulting the method table.
func WithAPI(api string) CallOption {
	return func(cfg *callConfig) { cfg.api = api }
}

// WithRetries overrides the connection's default retry count for one call.
func WithRetries(n int) CallOption {
	return func(cfg *callConfig) { cfg.retries = n }
}

type request struct {
	Method  string `json:"method"`
	Params  [3]any `json:"params"`
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
}

type response struct {
	ID     uint64          `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *Error          `json:"error"`
}

// Call sends one JSON-RPC request and returns the raw result payload.
//
// The api namespace comes from the static method table unless WithAPI is
// given; an unregistered method fails with a ProtocolError before any network
// I/O. Transient send failures are retried up to the configured retry count,
// then surface as a TransportError. A node-side error payload is classified
// exactly once through Translate; an empty error message propagates the raw
// payload as *Error.
func (c *Client) Call(ctx context.Context, method string, args []any, copts ...CallOption) (json.RawMessage, error) {
	cfg := callConfig{retries: *c.opts.NumRetries}
	for _, o := range copts {
		o(&cfg)
	}
	if cfg.retries < 0 {
		cfg.retries = 0
	}
	if cfg.api == "" {
		api, ok := APIForMethod(method)
		if !ok {
			return nil, &ProtocolError{Reason: fmt.Sprintf("no registered api namespace for method %q", method)}
		}
		cfg.api = api
	}
	if args == nil {
		args = []any{}
	}

	req := request{
		Method:  "call",
		Params:  [3]any{cfg.api, method, args},
		JSONRPC: "2.0",
		ID:      c.nextID.Add(1),
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	raw, attempts, err := c.exchange(ctx, payload, cfg.retries)
	if c.opts.Observer != nil {
		defer func() {
			c.opts.Observer.ObserveCall(method, cfg.api, attempts, time.Since(start), err)
		}()
	}
	if err != nil {
		return nil, &TransportError{URL: c.conn.URL(), Attempts: attempts, Err: err}
	}

	var resp response
	if err = json.Unmarshal(raw, &resp); err != nil {
		err = fmt.Errorf("decode response for %s: %w", method, err)
		return nil, err
	}
	if resp.ID != req.ID {
		err = &ProtocolError{Reason: fmt.Sprintf("response id %d does not match request id %d", resp.ID, req.ID)}
		return nil, err
	}
	if resp.Error != nil {
		if translated := Translate(resp.Error.Message); translated != nil {
			err = translated
			return nil, err
		}
		// No classification possible; surface the payload untouched.
		err = resp.Error
		return nil, err
	}
	c.log.Debugw("rpc call", "method", method, "api", cfg.api, "id", req.ID, "attempts", attempts, "took", time.Since(start))
	return resp.Result, nil
}

// exchange performs the locked send/receive cycle, retrying transient
// failures. It returns the raw response bytes and the number of attempts.
func (c *Client) exchange(ctx context.Context, payload []byte, retries int) ([]byte, int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var (
		raw      []byte
		err      error
		attempts int
	)
	for attempts = 1; attempts <= retries+1; attempts++ {
		raw, err = c.conn.Send(ctx, payload)
		if err == nil {
			return raw, attempts, nil
		}
		if ctx.Err() != nil {
			// The caller's deadline expired; more attempts cannot succeed.
			return nil, attempts, err
		}
		c.log.Debugw("rpc send failed", "url", c.conn.URL(), "attempt", attempts, "error", err)
	}
	return nil, attempts - 1, err
}
