package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	params, ok := Lookup("2040effda178d4fffff5eab7a915d4d16a1f1bfbfdcf9d323c5e4996e4a6b264")
	require.True(t, ok)
	assert.Equal(t, "VIZ", params.Name)
	assert.Equal(t, "VIZ", params.CoreSymbol)
	assert.Equal(t, "SHARES", params.SharesSymbol)
	assert.Equal(t, int64(10000), params.PercentBase)

	_, ok = Lookup("ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff")
	assert.False(t, ok)
}

func TestPrecisionOf(t *testing.T) {
	params, _ := Lookup("2040effda178d4fffff5eab7a915d4d16a1f1bfbfdcf9d323c5e4996e4a6b264")

	prec, err := params.PrecisionOf("VIZ")
	require.NoError(t, err)
	assert.Equal(t, int32(3), prec)

	prec, err = params.PrecisionOf("SHARES")
	require.NoError(t, err)
	assert.Equal(t, int32(6), prec)

	_, err = params.PrecisionOf("DOGE")
	assert.Error(t, err)
}

func TestScalePercent(t *testing.T) {
	params := &KnownNetworks[0]

	tests := []struct {
		pct  float64
		want int64
	}{
		{0, 0},
		{25, 2500},
		{50, 5000},
		{100, 10000},
		{0.5, 50},
		{33.333, 3333}, // rounds, does not truncate
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, params.ScalePercent(tt.pct), "pct=%v", tt.pct)
	}
}
