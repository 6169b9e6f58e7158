package viz

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vizchain/viz-go/operations"
	"github.com/vizchain/viz-go/rpc"
)

// encryptedMemoSentinel marks a memo that must be encrypted before it is
// embedded in an operation.
const encryptedMemoSentinel = "#"

// Transfer moves liquid tokens to another account. A memo starting with "#"
// is replaced by ciphertext from the memo codec before the operation is
// built. Signed with the active authority.
func (c *Client) Transfer(ctx context.Context, to string, amount decimal.Decimal, symbol, memo, account string) (json.RawMessage, error) {
	from, err := c.actingAccount(account)
	if err != nil {
		return nil, err
	}
	amt, err := c.params.NewAmount(amount, symbol)
	if err != nil {
		return nil, &rpc.ValidationError{Reason: err.Error()}
	}
	if strings.HasPrefix(memo, encryptedMemoSentinel) {
		if c.memo == nil {
			return nil, &rpc.ConfigError{Reason: "memo starts with " + encryptedMemoSentinel + " but no memo codec is configured"}
		}
		memo, err = c.memo.Encrypt(ctx, memo, from, to)
		if err != nil {
			return nil, fmt.Errorf("encrypt memo: %w", err)
		}
	}

	op := operations.Transfer{From: from, To: to, Amount: amt, Memo: memo}
	return c.finalize(ctx, op, from, operations.RoleActive)
}

// Award grants social energy to a receiver. energy is a percentage in
// [0,100], converted to the chain's percent-base units. Signed with the
// regular authority.
func (c *Client) Award(ctx context.Context, receiver string, energy float64, memo string, beneficiaries []operations.Beneficiary, account string) (json.RawMessage, error) {
	initiator, err := c.actingAccount(account)
	if err != nil {
		return nil, err
	}
	if energy < 0 || energy > 100 {
		return nil, &rpc.ValidationError{Reason: fmt.Sprintf("energy %v out of range [0, 100]", energy)}
	}
	if beneficiaries == nil {
		beneficiaries = []operations.Beneficiary{}
	}

	op := operations.Award{
		Initiator:     initiator,
		Receiver:      receiver,
		Energy:        uint16(c.params.ScalePercent(energy)),
		Memo:          memo,
		Beneficiaries: beneficiaries,
	}
	return c.finalize(ctx, op, initiator, operations.RoleRegular)
}

// FixedAward grants a fixed token reward capped by max energy. Signed with
// the regular authority.
func (c *Client) FixedAward(ctx context.Context, receiver string, rewardAmount decimal.Decimal, maxEnergy float64, memo string, beneficiaries []operations.Beneficiary, account string) (json.RawMessage, error) {
	initiator, err := c.actingAccount(account)
	if err != nil {
		return nil, err
	}
	if maxEnergy < 0 || maxEnergy > 100 {
		return nil, &rpc.ValidationError{Reason: fmt.Sprintf("max energy %v out of range [0, 100]", maxEnergy)}
	}
	amt, err := c.params.NewAmount(rewardAmount, c.params.CoreSymbol)
	if err != nil {
		return nil, &rpc.ValidationError{Reason: err.Error()}
	}
	if beneficiaries == nil {
		beneficiaries = []operations.Beneficiary{}
	}

	op := operations.FixedAward{
		Initiator:     initiator,
		Receiver:      receiver,
		RewardAmount:  amt,
		MaxEnergy:     uint16(c.params.ScalePercent(maxEnergy)),
		Memo:          memo,
		Beneficiaries: beneficiaries,
	}
	return c.finalize(ctx, op, initiator, operations.RoleRegular)
}

// Custom broadcasts an arbitrary JSON payload under a protocol id. Exactly
// one of the auth lists must be non-empty; the acting account is the first
// entry of whichever list is populated, and the signing role follows the same
// choice (active wins when both are populated).
func (c *Client) Custom(ctx context.Context, id string, payload any, requiredActiveAuths, requiredRegularAuths []string) (json.RawMessage, error) {
	if len(requiredActiveAuths) == 0 && len(requiredRegularAuths) == 0 {
		return nil, &rpc.ValidationError{Reason: "custom operation needs at least one required auth"}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &rpc.ValidationError{Reason: fmt.Sprintf("custom payload is not serializable: %v", err)}
	}

	account := ""
	role := operations.RoleRegular
	if len(requiredActiveAuths) > 0 {
		account = requiredActiveAuths[0]
		role = operations.RoleActive
	} else {
		account = requiredRegularAuths[0]
	}
	if requiredActiveAuths == nil {
		requiredActiveAuths = []string{}
	}
	if requiredRegularAuths == nil {
		requiredRegularAuths = []string{}
	}

	op := operations.Custom{
		RequiredActiveAuths:  requiredActiveAuths,
		RequiredRegularAuths: requiredRegularAuths,
		ID:                   id,
		JSON:                 string(body),
	}
	return c.finalize(ctx, op, account, role)
}

// WithdrawVesting starts powering down vesting shares. The amount is
// formatted at the vesting asset's precision. Signed with the active
// authority.
func (c *Client) WithdrawVesting(ctx context.Context, amount decimal.Decimal, account string) (json.RawMessage, error) {
	acting, err := c.actingAccount(account)
	if err != nil {
		return nil, err
	}
	shares, err := c.params.NewAmount(amount, c.params.SharesSymbol)
	if err != nil {
		return nil, &rpc.ValidationError{Reason: err.Error()}
	}

	op := operations.WithdrawVesting{Account: acting, VestingShares: shares}
	return c.finalize(ctx, op, acting, operations.RoleActive)
}

// TransferToVesting powers up liquid tokens into vesting shares. An empty
// destination powers up the acting account itself. Signed with the active
// authority.
func (c *Client) TransferToVesting(ctx context.Context, amount decimal.Decimal, to, account string) (json.RawMessage, error) {
	from, err := c.actingAccount(account)
	if err != nil {
		return nil, err
	}
	if to == "" {
		to = from
	}
	amt, err := c.params.NewAmount(amount, c.params.CoreSymbol)
	if err != nil {
		return nil, &rpc.ValidationError{Reason: err.Error()}
	}

	op := operations.TransferToVesting{From: from, To: to, Amount: amt}
	return c.finalize(ctx, op, from, operations.RoleActive)
}

// SetWithdrawVestingRoute directs a percentage of future power-downs to
// another account. percentage is in [0,100] and is scaled to percent-base
// units. Signed with the active authority.
func (c *Client) SetWithdrawVestingRoute(ctx context.Context, to string, percentage float64, autoVest bool, account string) (json.RawMessage, error) {
	from, err := c.actingAccount(account)
	if err != nil {
		return nil, err
	}
	if percentage < 0 || percentage > 100 {
		return nil, &rpc.ValidationError{Reason: fmt.Sprintf("percentage %v out of range [0, 100]", percentage)}
	}

	op := operations.SetWithdrawVestingRoute{
		FromAccount: from,
		ToAccount:   to,
		Percent:     uint16(c.params.ScalePercent(percentage)),
		AutoVest:    autoVest,
	}
	return c.finalize(ctx, op, from, operations.RoleActive)
}

// DelegateVestingShares lends vesting shares to another account. The
// delegator is the acting account. Signed with the active authority.
func (c *Client) DelegateVestingShares(ctx context.Context, delegator, delegatee string, amount decimal.Decimal) (json.RawMessage, error) {
	acting, err := c.actingAccount(delegator)
	if err != nil {
		return nil, err
	}
	shares, err := c.params.NewAmount(amount, c.params.SharesSymbol)
	if err != nil {
		return nil, &rpc.ValidationError{Reason: err.Error()}
	}

	op := operations.DelegateVestingShares{Delegator: acting, Delegatee: delegatee, VestingShares: shares}
	return c.finalize(ctx, op, acting, operations.RoleActive)
}
