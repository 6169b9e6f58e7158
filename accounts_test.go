package viz

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vizchain/viz-go/chain"
	"github.com/vizchain/viz-go/pkg/cache"
	"github.com/vizchain/viz-go/rpc"
)

func newLookupClient(t *testing.T, caller Caller, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{
		WithParams(&chain.KnownNetworks[0]),
		WithCaller(caller),
	}, opts...)
	c, err := Dial(context.Background(), "", opts...)
	require.NoError(t, err)
	return c
}

func TestAccountDecodesResponse(t *testing.T) {
	caller := callerFunc(func(_ context.Context, method string, args []any, _ ...rpc.CallOption) (json.RawMessage, error) {
		assert.Equal(t, "get_accounts", method)
		require.Len(t, args, 1)
		assert.Equal(t, []string{"alice"}, args[0])
		return json.RawMessage(`[{"id":7,"name":"alice","memo_key":"VIZ111"}]`), nil
	})
	c := newLookupClient(t, caller)

	acc, err := c.Account(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), acc.ID)
	assert.Equal(t, "alice", acc.Name)
	assert.Equal(t, "VIZ111", acc.MemoKey)
	assert.JSONEq(t, `{"id":7,"name":"alice","memo_key":"VIZ111"}`, string(acc.Raw))
}

func TestAccountNotFound(t *testing.T) {
	caller := callerFunc(func(context.Context, string, []any, ...rpc.CallOption) (json.RawMessage, error) {
		return json.RawMessage(`[null]`), nil
	})
	c := newLookupClient(t, caller)

	_, err := c.Account(context.Background(), "ghost")
	var nfErr *rpc.AccountNotFoundError
	require.ErrorAs(t, err, &nfErr)
}

func TestAccountEmptyName(t *testing.T) {
	c := newLookupClient(t, callerFunc(func(context.Context, string, []any, ...rpc.CallOption) (json.RawMessage, error) {
		t.Fatal("unexpected rpc call")
		return nil, nil
	}))

	_, err := c.Account(context.Background(), "")
	var authErr *rpc.AuthorityError
	require.ErrorAs(t, err, &authErr)
}

func TestAccountServedFromCache(t *testing.T) {
	var calls atomic.Int64
	caller := callerFunc(func(context.Context, string, []any, ...rpc.CallOption) (json.RawMessage, error) {
		calls.Add(1)
		return json.RawMessage(`[{"id":7,"name":"alice"}]`), nil
	})
	store, err := cache.New(cache.Config{Backend: cache.BackendMemory})
	require.NoError(t, err)
	defer store.Close()
	c := newLookupClient(t, caller, WithCache(store, time.Minute))

	for i := 0; i < 3; i++ {
		acc, err := c.Account(context.Background(), "alice")
		require.NoError(t, err)
		assert.Equal(t, "alice", acc.Name)
	}
	assert.Equal(t, int64(1), calls.Load())
}

func TestInfoDecodesGlobalProperties(t *testing.T) {
	caller := callerFunc(func(_ context.Context, method string, _ []any, _ ...rpc.CallOption) (json.RawMessage, error) {
		assert.Equal(t, "get_dynamic_global_properties", method)
		return json.RawMessage(`{"head_block_number":123,"head_block_id":"00000f","time":"2024-01-01T00:00:00","current_witness":"w1","last_irreversible_block_num":100}`), nil
	})
	c := newLookupClient(t, caller)

	dgp, err := c.Info(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(123), dgp.HeadBlockNumber)
	assert.Equal(t, "w1", dgp.CurrentWitness)
	assert.Equal(t, uint64(100), dgp.LastIrreversible)
}

func TestGetWithdrawVestingRoutes(t *testing.T) {
	caller := callerFunc(func(_ context.Context, method string, args []any, _ ...rpc.CallOption) (json.RawMessage, error) {
		assert.Equal(t, "get_withdraw_vesting_routes", method)
		assert.Equal(t, []any{"alice", "all"}, args)
		return json.RawMessage(`[{"from_account":"alice","to_account":"bob","percent":2500,"auto_vest":true}]`), nil
	})
	c := newLookupClient(t, caller, WithDefaultAccount("alice"))

	routes, err := c.GetWithdrawVestingRoutes(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, "bob", routes[0].ToAccount)
	assert.Equal(t, uint16(2500), routes[0].Percent)
	assert.True(t, routes[0].AutoVest)
}
