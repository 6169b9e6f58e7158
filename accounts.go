package viz

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vizchain/viz-go/pkg/cache"
	"github.com/vizchain/viz-go/rpc"
)

// Account is the on-chain account record, decoded from get_accounts. Fields
// the client does not need stay in Raw.
type Account struct {
	ID      uint64          `json:"id"`
	Name    string          `json:"name"`
	MemoKey string          `json:"memo_key"`
	Raw     json.RawMessage `json:"-"`
}

func accountCacheKey(name string) string {
	return "viz:account:" + name
}

// Account fetches one account by name. Results are cached (when a cache is
// configured) and concurrent lookups for the same name are deduplicated to a
// single RPC call.
func (c *Client) Account(ctx context.Context, name string) (*Account, error) {
	if name == "" {
		return nil, &rpc.AuthorityError{Missing: "acting account"}
	}

	if c.cache != nil {
		if raw, err := c.cache.Get(ctx, accountCacheKey(name)); err == nil {
			return decodeAccount(raw)
		} else if err != cache.ErrNotFound {
			c.log.Debugw("account cache read failed", "account", name, "error", err)
		}
	}

	v, err, _ := c.sf.Do(name, func() (any, error) {
		raw, err := c.rpc.Call(ctx, "get_accounts", []any{[]string{name}})
		if err != nil {
			return nil, err
		}
		var accounts []json.RawMessage
		if err := json.Unmarshal(raw, &accounts); err != nil {
			return nil, fmt.Errorf("decode get_accounts: %w", err)
		}
		if len(accounts) == 0 || string(accounts[0]) == "null" {
			return nil, &rpc.AccountNotFoundError{Message: name}
		}
		if c.cache != nil {
			if err := c.cache.Set(ctx, accountCacheKey(name), accounts[0], c.accountTTL); err != nil {
				c.log.Debugw("account cache write failed", "account", name, "error", err)
			}
		}
		return []byte(accounts[0]), nil
	})
	if err != nil {
		return nil, err
	}
	return decodeAccount(v.([]byte))
}

func decodeAccount(raw []byte) (*Account, error) {
	var acc Account
	if err := json.Unmarshal(raw, &acc); err != nil {
		return nil, fmt.Errorf("decode account: %w", err)
	}
	acc.Raw = append(json.RawMessage(nil), raw...)
	return &acc, nil
}

// DynamicGlobalProperties is the subset of the node's per-block state the
// client surfaces with typed fields.
type DynamicGlobalProperties struct {
	HeadBlockNumber  uint64 `json:"head_block_number"`
	HeadBlockID      string `json:"head_block_id"`
	Time             string `json:"time"`
	CurrentWitness   string `json:"current_witness"`
	LastIrreversible uint64 `json:"last_irreversible_block_num"`
}

// Info returns the node's dynamic global properties.
func (c *Client) Info(ctx context.Context) (*DynamicGlobalProperties, error) {
	raw, err := c.rpc.Call(ctx, "get_dynamic_global_properties", nil)
	if err != nil {
		return nil, err
	}
	var dgp DynamicGlobalProperties
	if err := json.Unmarshal(raw, &dgp); err != nil {
		return nil, fmt.Errorf("decode dynamic global properties: %w", err)
	}
	return &dgp, nil
}

// WithdrawVestingRoute is one power-down routing entry.
type WithdrawVestingRoute struct {
	FromAccount string `json:"from_account"`
	ToAccount   string `json:"to_account"`
	Percent     uint16 `json:"percent"`
	AutoVest    bool   `json:"auto_vest"`
}

// GetWithdrawVestingRoutes lists the power-down routes configured by an
// account.
func (c *Client) GetWithdrawVestingRoutes(ctx context.Context, account string) ([]WithdrawVestingRoute, error) {
	acting, err := c.actingAccount(account)
	if err != nil {
		return nil, err
	}
	raw, err := c.rpc.Call(ctx, "get_withdraw_vesting_routes", []any{acting, "all"})
	if err != nil {
		return nil, err
	}
	var routes []WithdrawVestingRoute
	if err := json.Unmarshal(raw, &routes); err != nil {
		return nil, fmt.Errorf("decode withdraw vesting routes: %w", err)
	}
	return routes, nil
}
