package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vizchain/viz-go/rpc"
)

type fakeCaller struct {
	chainID string
	calls   []string
}

func (f *fakeCaller) Call(ctx context.Context, method string, args []any, opts ...rpc.CallOption) (json.RawMessage, error) {
	f.calls = append(f.calls, method)
	if method != "get_config" {
		return nil, fmt.Errorf("unexpected method %s", method)
	}
	return json.RawMessage(fmt.Sprintf(`{"CHAIN_ID":%q,"CHAIN_CORE_NAME":"VIZ"}`, f.chainID)), nil
}

func TestIdentifyKnownNetwork(t *testing.T) {
	caller := &fakeCaller{chainID: "2040effda178d4fffff5eab7a915d4d16a1f1bfbfdcf9d323c5e4996e4a6b264"}

	params, err := Identify(context.Background(), caller)
	require.NoError(t, err)
	assert.Equal(t, "VIZ", params.Name)
	assert.Equal(t, []string{"get_config"}, caller.calls)
}

func TestIdentifyUnknownNetwork(t *testing.T) {
	caller := &fakeCaller{chainID: "deadbeef"}

	_, err := Identify(context.Background(), caller)
	var cfgErr *rpc.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, err.Error(), "unknown network")
}
