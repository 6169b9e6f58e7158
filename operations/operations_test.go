package operations

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vizchain/viz-go/chain"
)

func TestMarshalTransferWireShape(t *testing.T) {
	params, ok := chain.Lookup("2040effda178d4fffff5eab7a915d4d16a1f1bfbfdcf9d323c5e4996e4a6b264")
	require.True(t, ok)
	amt, err := params.NewAmount(decimal.RequireFromString("1.5"), "VIZ")
	require.NoError(t, err)

	out, err := Marshal(Transfer{From: "alice", To: "bob", Amount: amt, Memo: "hi"})
	require.NoError(t, err)
	assert.JSONEq(t, `["transfer",{"from":"alice","to":"bob","amount":"1.500 VIZ","memo":"hi"}]`, string(out))
}

func TestMarshalCustomWireShape(t *testing.T) {
	op := Custom{
		RequiredActiveAuths:  []string{"alice"},
		RequiredRegularAuths: []string{},
		ID:                   "a",
		JSON:                 `{"foo":"bar"}`,
	}
	out, err := Marshal(op)
	require.NoError(t, err)
	assert.JSONEq(t, `["custom",{"required_active_auths":["alice"],"required_regular_auths":[],"id":"a","json":"{\"foo\":\"bar\"}"}]`, string(out))
}

func TestAuthorityWireShape(t *testing.T) {
	auth := Authority{
		WeightThreshold: 1,
		AccountAuths:    []AccountAuth{{Account: "bob", Weight: 1}},
		KeyAuths:        []KeyAuth{{Key: "VIZ111", Weight: 1}},
	}
	out, err := json.Marshal(auth)
	require.NoError(t, err)
	assert.JSONEq(t, `{"weight_threshold":1,"account_auths":[["bob",1]],"key_auths":[["VIZ111",1]]}`, string(out))

	var back Authority
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, auth, back)
}

func TestOperationNames(t *testing.T) {
	assert.Equal(t, "account_create", AccountCreate{}.OperationName())
	assert.Equal(t, "award", Award{}.OperationName())
	assert.Equal(t, "fixed_award", FixedAward{}.OperationName())
	assert.Equal(t, "withdraw_vesting", WithdrawVesting{}.OperationName())
	assert.Equal(t, "transfer_to_vesting", TransferToVesting{}.OperationName())
	assert.Equal(t, "set_withdraw_vesting_route", SetWithdrawVestingRoute{}.OperationName())
	assert.Equal(t, "delegate_vesting_shares", DelegateVestingShares{}.OperationName())
}
