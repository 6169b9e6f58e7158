package chain

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a monetary value bound to an asset symbol at that asset's fixed
// precision. The value is rounded to the precision at construction time, so
// formatting and parsing round-trip exactly.
type Amount struct {
	Value     decimal.Decimal
	Symbol    string
	precision int32
}

// NewAmount binds a decimal value to a symbol declared on this network. The
// value is rounded half-up to the symbol's precision.
func (p *Params) NewAmount(value decimal.Decimal, symbol string) (Amount, error) {
	prec, err := p.PrecisionOf(symbol)
	if err != nil {
		return Amount{}, err
	}
	return Amount{Value: value.Round(prec), Symbol: symbol, precision: prec}, nil
}

// ParseAmount parses the wire form "<value> <SYMBOL>".
func (p *Params) ParseAmount(s string) (Amount, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return Amount{}, fmt.Errorf("malformed amount %q: want \"<value> <symbol>\"", s)
	}
	value, err := decimal.NewFromString(fields[0])
	if err != nil {
		return Amount{}, fmt.Errorf("malformed amount %q: %w", s, err)
	}
	return p.NewAmount(value, fields[1])
}

// String renders the wire form with exactly the asset's declared precision,
// e.g. "1.500 VIZ".
func (a Amount) String() string {
	return a.Value.StringFixed(a.precision) + " " + a.Symbol
}

// MarshalJSON encodes the amount as its wire string.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}
