package chain

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vizchain/viz-go/rpc"
)

// Caller is the slice of the RPC client Identify needs.
type Caller interface {
	Call(ctx context.Context, method string, args []any, opts ...rpc.CallOption) (json.RawMessage, error)
}

// Identify queries the node's configuration and matches the reported chain id
// against the known-networks table. A node reporting an unknown chain id is a
// configuration error: mismatched parameters would corrupt every amount and
// percent conversion downstream.
func Identify(ctx context.Context, c Caller) (*Params, error) {
	raw, err := c.Call(ctx, "get_config", nil)
	if err != nil {
		return nil, fmt.Errorf("get_config: %w", err)
	}
	var cfg struct {
		ChainID string `json:"CHAIN_ID"`
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("decode node config: %w", err)
	}
	params, ok := Lookup(cfg.ChainID)
	if !ok {
		return nil, &rpc.ConfigError{Reason: fmt.Sprintf("connected to unknown network (chain id %s)", cfg.ChainID)}
	}
	return params, nil
}
