// Package operations defines the typed state-change instructions this client
// can construct. Each operation serializes to the graphene wire shape
// ["name", {fields...}] and is handed to an external finalizer for signing
// and broadcast together with the authority role that must sign it.
package operations

import (
	"encoding/json"

	"github.com/vizchain/viz-go/chain"
)

// KeyRole names the authority category whose key must sign an operation.
type KeyRole string

const (
	// RoleMaster is the top-level account authority (graphene "owner").
	RoleMaster  KeyRole = "master"
	RoleActive  KeyRole = "active"
	RoleRegular KeyRole = "regular"
	RoleMemo    KeyRole = "memo"
)

// Operation is one state-change instruction awaiting signing and broadcast.
type Operation interface {
	// OperationName is the wire-level operation tag, e.g. "transfer".
	OperationName() string
}

// Marshal encodes an operation into its tagged wire form.
func Marshal(op Operation) ([]byte, error) {
	return json.Marshal([2]any{op.OperationName(), op})
}

type Transfer struct {
	From   string       `json:"from"`
	To     string       `json:"to"`
	Amount chain.Amount `json:"amount"`
	Memo   string       `json:"memo"`
}

func (Transfer) OperationName() string { return "transfer" }

// Beneficiary routes a share of an award to another account. Weight is in
// percent-base units.
type Beneficiary struct {
	Account string `json:"account"`
	Weight  uint16 `json:"weight"`
}

type Award struct {
	Initiator      string        `json:"initiator"`
	Receiver       string        `json:"receiver"`
	Energy         uint16        `json:"energy"`
	CustomSequence uint64        `json:"custom_sequence"`
	Memo           string        `json:"memo"`
	Beneficiaries  []Beneficiary `json:"beneficiaries"`
}

func (Award) OperationName() string { return "award" }

type FixedAward struct {
	Initiator      string        `json:"initiator"`
	Receiver       string        `json:"receiver"`
	RewardAmount   chain.Amount  `json:"reward_amount"`
	MaxEnergy      uint16        `json:"max_energy"`
	CustomSequence uint64        `json:"custom_sequence"`
	Memo           string        `json:"memo"`
	Beneficiaries  []Beneficiary `json:"beneficiaries"`
}

func (FixedAward) OperationName() string { return "fixed_award" }

// Custom carries an arbitrary JSON payload under a protocol id. Exactly one
// of the auth lists is populated; the builder enforces that before
// construction.
type Custom struct {
	RequiredActiveAuths  []string `json:"required_active_auths"`
	RequiredRegularAuths []string `json:"required_regular_auths"`
	ID                   string   `json:"id"`
	JSON                 string   `json:"json"`
}

func (Custom) OperationName() string { return "custom" }

type WithdrawVesting struct {
	Account       string       `json:"account"`
	VestingShares chain.Amount `json:"vesting_shares"`
}

func (WithdrawVesting) OperationName() string { return "withdraw_vesting" }

type TransferToVesting struct {
	From   string       `json:"from"`
	To     string       `json:"to"`
	Amount chain.Amount `json:"amount"`
}

func (TransferToVesting) OperationName() string { return "transfer_to_vesting" }

type SetWithdrawVestingRoute struct {
	FromAccount string `json:"from_account"`
	ToAccount   string `json:"to_account"`
	Percent     uint16 `json:"percent"`
	AutoVest    bool   `json:"auto_vest"`
}

func (SetWithdrawVestingRoute) OperationName() string { return "set_withdraw_vesting_route" }

// AccountAuth grants an account a weighted vote in an authority. Serializes
// as the graphene pair ["account", weight].
type AccountAuth struct {
	Account string
	Weight  uint16
}

func (a AccountAuth) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{a.Account, a.Weight})
}

func (a *AccountAuth) UnmarshalJSON(data []byte) error {
	pair := [2]json.RawMessage{}
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if err := json.Unmarshal(pair[0], &a.Account); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &a.Weight)
}

// KeyAuth grants a public key a weighted vote in an authority. Serializes as
// the graphene pair ["key", weight].
type KeyAuth struct {
	Key    string
	Weight uint16
}

func (k KeyAuth) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{k.Key, k.Weight})
}

func (k *KeyAuth) UnmarshalJSON(data []byte) error {
	pair := [2]json.RawMessage{}
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if err := json.Unmarshal(pair[0], &k.Key); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &k.Weight)
}

// Authority is a weighted set of accounts and keys; signatures whose combined
// weight reaches the threshold satisfy it.
type Authority struct {
	WeightThreshold uint32        `json:"weight_threshold"`
	AccountAuths    []AccountAuth `json:"account_auths"`
	KeyAuths        []KeyAuth     `json:"key_auths"`
}

type AccountCreate struct {
	Fee            chain.Amount `json:"fee"`
	Delegation     chain.Amount `json:"delegation"`
	Creator        string       `json:"creator"`
	NewAccountName string       `json:"new_account_name"`
	Master         Authority    `json:"master"`
	Active         Authority    `json:"active"`
	Regular        Authority    `json:"regular"`
	MemoKey        string       `json:"memo_key"`
	JSONMetadata   string       `json:"json_metadata"`
	Referrer       string       `json:"referrer"`
}

func (AccountCreate) OperationName() string { return "account_create" }

type DelegateVestingShares struct {
	Delegator     string       `json:"delegator"`
	Delegatee     string       `json:"delegatee"`
	VestingShares chain.Amount `json:"vesting_shares"`
}

func (DelegateVestingShares) OperationName() string { return "delegate_vesting_shares" }
