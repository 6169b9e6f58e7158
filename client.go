// Package viz is a client for a VIZ (graphene-family) blockchain node. It
// dispatches JSON-RPC calls over WebSocket or HTTP and constructs typed,
// validated operations which an external Finalizer signs and broadcasts.
package viz

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/vizchain/viz-go/chain"
	"github.com/vizchain/viz-go/operations"
	"github.com/vizchain/viz-go/pkg/cache"
	"github.com/vizchain/viz-go/rpc"
)

// Caller dispatches one JSON-RPC call. *rpc.Client is the production
// implementation; tests substitute fakes.
type Caller interface {
	Call(ctx context.Context, method string, args []any, opts ...rpc.CallOption) (json.RawMessage, error)
}

// KeyStore resolves the signing key (as WIF) for an account role. keys.Ring
// is the in-memory implementation.
type KeyStore interface {
	Resolve(account string, role operations.KeyRole) (string, error)
}

// MemoCodec encrypts and decrypts private memos. Implementations resolve
// memo keys through a KeyStore; the client only routes plaintext in and
// ciphertext out.
type MemoCodec interface {
	Encrypt(ctx context.Context, plaintext, from, to string) (string, error)
	Decrypt(ctx context.Context, ciphertext string) (string, error)
}

// BroadcastMode selects how the finalizer waits on a broadcast transaction.
type BroadcastMode string

const (
	// BroadcastAsync returns as soon as the node accepts the transaction.
	BroadcastAsync BroadcastMode = "async"
	// BroadcastSync waits for the transaction to reach the head block.
	BroadcastSync BroadcastMode = "sync"
	// BroadcastBlock waits for irreversible inclusion.
	BroadcastBlock BroadcastMode = "block"
)

// Finalizer assembles, signs, and broadcasts one operation. Its result, good
// or bad, is returned to the caller of the builder unmodified: the client
// never retries or reinterprets finalizer failures.
type Finalizer interface {
	Finalize(ctx context.Context, op operations.Operation, account string, role operations.KeyRole, mode BroadcastMode) (json.RawMessage, error)
}

// Client is a connected node client. One connection per client; the
// underlying dispatcher serializes calls, so a Client may be shared between
// goroutines.
type Client struct {
	rpc       Caller
	params    *chain.Params
	finalizer Finalizer
	memo      MemoCodec
	keys      KeyStore
	cache     cache.Store

	defaultAccount string
	accountTTL     time.Duration
	mode           BroadcastMode
	sessionID      string
	log            *zap.SugaredLogger
	sf             singleflight.Group
}

type clientOptions struct {
	caller         Caller
	params         *chain.Params
	finalizer      Finalizer
	memo           MemoCodec
	keys           KeyStore
	cache          cache.Store
	defaultAccount string
	accountTTL     time.Duration
	mode           BroadcastMode
	rpcOptions     rpc.Options
	log            *zap.SugaredLogger
}

// Option configures a Client.
type Option func(*clientOptions)

// WithDefaultAccount sets the account used when a builder is called without
// an explicit acting account.
func WithDefaultAccount(account string) Option {
	return func(o *clientOptions) { o.defaultAccount = account }
}

// WithFinalizer wires the signing/broadcast collaborator.
func WithFinalizer(f Finalizer) Option {
	return func(o *clientOptions) { o.finalizer = f }
}

// WithMemoCodec wires the memo encryption collaborator.
func WithMemoCodec(m MemoCodec) Option {
	return func(o *clientOptions) { o.memo = m }
}

// WithKeyStore wires the signing-key collaborator.
func WithKeyStore(k KeyStore) Option {
	return func(o *clientOptions) { o.keys = k }
}

// WithCache provides a store for account lookups. Without one every Account
// call hits the node.
func WithCache(s cache.Store, accountTTL time.Duration) Option {
	return func(o *clientOptions) {
		o.cache = s
		o.accountTTL = accountTTL
	}
}

// WithBroadcastMode sets the finalize mode passed to the Finalizer.
func WithBroadcastMode(mode BroadcastMode) Option {
	return func(o *clientOptions) { o.mode = mode }
}

// WithRPCOptions tunes the underlying connection built by Dial.
func WithRPCOptions(opts rpc.Options) Option {
	return func(o *clientOptions) { o.rpcOptions = opts }
}

// WithLogger sets the client logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(o *clientOptions) { o.log = log }
}

// WithCaller substitutes the RPC dispatcher; Dial skips connecting when set.
func WithCaller(c Caller) Option {
	return func(o *clientOptions) { o.caller = c }
}

// WithParams pins chain parameters instead of identifying the network over
// RPC.
func WithParams(p *chain.Params) Option {
	return func(o *clientOptions) { o.params = p }
}

// Dial connects to the node, identifies the network against the known-chains
// table, and returns a ready client. The URL scheme selects the transport:
// ws/wss for WebSocket, http/https for HTTP.
func Dial(ctx context.Context, nodeURL string, opts ...Option) (*Client, error) {
	o := clientOptions{mode: BroadcastSync}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = zap.NewNop().Sugar()
	}
	if o.rpcOptions.Logger == nil {
		o.rpcOptions.Logger = o.log
	}

	caller := o.caller
	if caller == nil {
		rc, err := rpc.Dial(ctx, nodeURL, o.rpcOptions)
		if err != nil {
			return nil, err
		}
		caller = rc
	}

	params := o.params
	if params == nil {
		var err error
		params, err = chain.Identify(ctx, caller)
		if err != nil {
			return nil, fmt.Errorf("identify network: %w", err)
		}
	}

	c := &Client{
		rpc:            caller,
		params:         params,
		finalizer:      o.finalizer,
		memo:           o.memo,
		keys:           o.keys,
		cache:          o.cache,
		defaultAccount: o.defaultAccount,
		accountTTL:     o.accountTTL,
		mode:           o.mode,
		sessionID:      uuid.NewString(),
		log:            o.log,
	}
	c.log.Debugw("client ready", "network", params.Name, "session", c.sessionID)
	return c, nil
}

// Params returns the immutable chain parameters for this connection.
func (c *Client) Params() *chain.Params {
	return c.params
}

// RPC exposes the raw dispatcher for methods without a typed wrapper.
func (c *Client) RPC() Caller {
	return c.rpc
}

// Close releases the connection when the dispatcher owns one.
func (c *Client) Close() error {
	if closer, ok := c.rpc.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

// actingAccount applies the default-account fallback. It fails before any
// action-specific validation when neither an explicit account nor a default
// is available.
func (c *Client) actingAccount(account string) (string, error) {
	if account == "" {
		account = c.defaultAccount
	}
	if account == "" {
		return "", &rpc.AuthorityError{Missing: "acting account"}
	}
	return account, nil
}

// finalize hands the finished operation to the Finalizer and returns its
// result unmodified.
func (c *Client) finalize(ctx context.Context, op operations.Operation, account string, role operations.KeyRole) (json.RawMessage, error) {
	if c.finalizer == nil {
		return nil, &rpc.ConfigError{Reason: "no finalizer configured"}
	}
	c.log.Debugw("finalizing operation",
		"operation", op.OperationName(),
		"account", account,
		"role", role,
		"mode", c.mode,
		"session", c.sessionID,
	)
	return c.finalizer.Finalize(ctx, op, account, role, c.mode)
}
