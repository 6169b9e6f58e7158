// Package chain holds network-level constants for the supported deployments
// of the chain: chain ids, asset symbols and precisions, and the percent base
// used to scale human-facing percentages into on-chain integer units.
package chain

import (
	"fmt"
	"math"
)

// Params describes one known deployment of the chain. A Params value is
// populated once per connection (see Identify) and is read-only afterwards,
// so it is safe for concurrent use without locking.
type Params struct {
	Name         string
	ChainID      string
	CoreSymbol   string
	SharesSymbol string
	// Prefix is prepended to serialized public keys on this network.
	Prefix string
	// PercentBase is the integer representation of 100%.
	PercentBase int64
	// Precision maps an asset symbol to its fixed decimal precision.
	Precision map[string]int32
}

// KnownNetworks is the static table matched against a node's reported chain
// id. Construct-once, never mutated.
var KnownNetworks = []Params{
	{
		Name:         "VIZ",
		ChainID:      "2040effda178d4fffff5eab7a915d4d16a1f1bfbfdcf9d323c5e4996e4a6b264",
		CoreSymbol:   "VIZ",
		SharesSymbol: "SHARES",
		Prefix:       "VIZ",
		PercentBase:  10000,
		Precision:    map[string]int32{"VIZ": 3, "SHARES": 6},
	},
	{
		Name:         "VIZTEST",
		ChainID:      "46d82ab7d8db682eb1959aed0ada039a6d49afa1602491f93dde9cac3e8e6c32",
		CoreSymbol:   "VIZ",
		SharesSymbol: "SHARES",
		Prefix:       "VIZ",
		PercentBase:  10000,
		Precision:    map[string]int32{"VIZ": 3, "SHARES": 6},
	},
}

// Lookup finds the known network with the given chain id.
func Lookup(chainID string) (*Params, bool) {
	for i := range KnownNetworks {
		if KnownNetworks[i].ChainID == chainID {
			return &KnownNetworks[i], true
		}
	}
	return nil, false
}

// PrecisionOf returns the fixed decimal precision declared for a symbol.
func (p *Params) PrecisionOf(symbol string) (int32, error) {
	prec, ok := p.Precision[symbol]
	if !ok {
		return 0, fmt.Errorf("unknown asset symbol %q on network %s", symbol, p.Name)
	}
	return prec, nil
}

// ScalePercent converts a human-facing percentage in [0,100] into the chain's
// integer units: round(pct * PercentBase / 100). Range checking is the
// caller's responsibility.
func (p *Params) ScalePercent(pct float64) int64 {
	return int64(math.Round(pct * float64(p.PercentBase) / 100))
}
