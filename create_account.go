package viz

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vizchain/viz-go/keys"
	"github.com/vizchain/viz-go/operations"
	"github.com/vizchain/viz-go/rpc"
)

// maxAccountNameLength is the chain's limit on account name length.
const maxAccountNameLength = 16

var accountNameSegmentRe = regexp.MustCompile(`^[a-z][a-z0-9-]*[a-z0-9]$`)

// CreateAccountOptions collects the optional parts of an account creation.
// Either Password or all four explicit public keys must be given, never both.
type CreateAccountOptions struct {
	// Creator pays the fee; falls back to the configured default account.
	Creator string

	// Password derives the master, active, regular, and memo keys
	// deterministically per role.
	Password string

	// Explicit public keys in the chain's string format.
	MasterKey  string
	ActiveKey  string
	RegularKey string
	MemoKey    string

	// Additional weighted entries appended to the respective authorities.
	AdditionalMasterKeys      []string
	AdditionalActiveKeys      []string
	AdditionalRegularKeys     []string
	AdditionalMasterAccounts  []string
	AdditionalActiveAccounts  []string
	AdditionalRegularAccounts []string

	// Fee in the core asset and Delegation in vesting shares; both default
	// to zero.
	Fee        decimal.Decimal
	Delegation decimal.Decimal

	Referrer     string
	JSONMetadata string
}

// CreateAccount registers a new account on the chain. Keys come either from a
// password (derived per role the way chain tooling does) or from four explicit
// public keys. Signed with the creator's active authority.
func (c *Client) CreateAccount(ctx context.Context, name string, o CreateAccountOptions) (json.RawMessage, error) {
	creator, err := c.actingAccount(o.Creator)
	if err != nil {
		return nil, err
	}
	if err := validateAccountName(name); err != nil {
		return nil, err
	}

	hasExplicit := o.MasterKey != "" || o.ActiveKey != "" || o.RegularKey != "" || o.MemoKey != ""
	hasAllExplicit := o.MasterKey != "" && o.ActiveKey != "" && o.RegularKey != "" && o.MemoKey != ""
	switch {
	case o.Password != "" && hasExplicit:
		return nil, &rpc.ValidationError{Reason: "cannot combine a password with explicit public keys"}
	case o.Password == "" && !hasAllExplicit:
		return nil, &rpc.ValidationError{Reason: "provide either a password or all four public keys"}
	}

	masterKey, activeKey, regularKey, memoKey := o.MasterKey, o.ActiveKey, o.RegularKey, o.MemoKey
	if o.Password != "" {
		derive := func(role operations.KeyRole) string {
			priv := keys.FromSeedRole(name, string(role), o.Password)
			return keys.PublicKeyString(priv.PubKey(), c.params.Prefix)
		}
		masterKey = derive(operations.RoleMaster)
		activeKey = derive(operations.RoleActive)
		regularKey = derive(operations.RoleRegular)
		memoKey = derive(operations.RoleMemo)
	}
	for _, group := range [][]string{
		{masterKey, activeKey, regularKey, memoKey},
		o.AdditionalMasterKeys,
		o.AdditionalActiveKeys,
		o.AdditionalRegularKeys,
	} {
		for _, k := range group {
			if _, err := keys.ParsePublicKey(k, c.params.Prefix); err != nil {
				return nil, &rpc.ValidationError{Reason: err.Error()}
			}
		}
	}

	fee, err := c.params.NewAmount(o.Fee, c.params.CoreSymbol)
	if err != nil {
		return nil, &rpc.ValidationError{Reason: err.Error()}
	}
	delegation, err := c.params.NewAmount(o.Delegation, c.params.SharesSymbol)
	if err != nil {
		return nil, &rpc.ValidationError{Reason: err.Error()}
	}

	op := operations.AccountCreate{
		Fee:            fee,
		Delegation:     delegation,
		Creator:        creator,
		NewAccountName: name,
		Master:         buildAuthority(masterKey, o.AdditionalMasterKeys, o.AdditionalMasterAccounts),
		Active:         buildAuthority(activeKey, o.AdditionalActiveKeys, o.AdditionalActiveAccounts),
		Regular:        buildAuthority(regularKey, o.AdditionalRegularKeys, o.AdditionalRegularAccounts),
		MemoKey:        memoKey,
		JSONMetadata:   o.JSONMetadata,
		Referrer:       o.Referrer,
	}
	return c.finalize(ctx, op, creator, operations.RoleActive)
}

// buildAuthority assembles a threshold-1 authority from the role key plus the
// additional weighted entries.
func buildAuthority(roleKey string, extraKeys, extraAccounts []string) operations.Authority {
	auth := operations.Authority{
		WeightThreshold: 1,
		AccountAuths:    []operations.AccountAuth{},
		KeyAuths:        []operations.KeyAuth{{Key: roleKey, Weight: 1}},
	}
	for _, k := range extraKeys {
		auth.KeyAuths = append(auth.KeyAuths, operations.KeyAuth{Key: k, Weight: 1})
	}
	for _, a := range extraAccounts {
		auth.AccountAuths = append(auth.AccountAuths, operations.AccountAuth{Account: a, Weight: 1})
	}
	return auth
}

func validateAccountName(name string) error {
	if len(name) < 3 {
		return &rpc.ValidationError{Reason: fmt.Sprintf("account name %q must be at least 3 characters", name)}
	}
	if len(name) > maxAccountNameLength {
		return &rpc.ValidationError{Reason: fmt.Sprintf("account name must be at most %d characters", maxAccountNameLength)}
	}
	for _, segment := range strings.Split(name, ".") {
		if len(segment) < 3 || !accountNameSegmentRe.MatchString(segment) {
			return &rpc.ValidationError{Reason: fmt.Sprintf("account name %q is invalid", name)}
		}
	}
	return nil
}
