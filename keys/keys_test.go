package keys

import (
	"encoding/hex"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vizchain/viz-go/operations"
)

// Well-known wallet-import-format test vector.
const (
	vectorKeyHex = "0c28fca386c7a227600b2fe50b7cae11ec86d3bf1fbe471be89827e19d72aa1d"
	vectorWIF    = "5HueCGU8rMjxEXxiPuD5BDku4MkFqeZyd4dZ1jvhTVqvbTLvyTJ"
)

func TestEncodeWIFVector(t *testing.T) {
	raw, err := hex.DecodeString(vectorKeyHex)
	require.NoError(t, err)
	key := secp256k1.PrivKeyFromBytes(raw)

	assert.Equal(t, vectorWIF, EncodeWIF(key))
}

func TestDecodeWIFVector(t *testing.T) {
	key, err := DecodeWIF(vectorWIF)
	require.NoError(t, err)
	assert.Equal(t, vectorKeyHex, hex.EncodeToString(key.Serialize()))
}

func TestWIFRoundTrip(t *testing.T) {
	key, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)

	decoded, err := DecodeWIF(EncodeWIF(key))
	require.NoError(t, err)
	assert.Equal(t, key.Serialize(), decoded.Serialize())
}

func TestDecodeWIFRejectsCorruption(t *testing.T) {
	_, err := DecodeWIF("not-base58-0OIl")
	require.Error(t, err)

	// Flip the last character so the checksum no longer matches.
	corrupted := vectorWIF[:len(vectorWIF)-1] + "K"
	_, err = DecodeWIF(corrupted)
	require.Error(t, err)
}

func TestPublicKeyStringRoundTrip(t *testing.T) {
	key, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	pub := key.PubKey()

	s := PublicKeyString(pub, "VIZ")
	assert.True(t, len(s) > 3 && s[:3] == "VIZ")

	parsed, err := ParsePublicKey(s, "VIZ")
	require.NoError(t, err)
	assert.Equal(t, pub.SerializeCompressed(), parsed.SerializeCompressed())
}

func TestParsePublicKeyRejectsWrongPrefix(t *testing.T) {
	key, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)

	s := PublicKeyString(key.PubKey(), "VIZ")
	_, err = ParsePublicKey(s, "GLS")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prefix")
}

func TestFromMnemonicDeterministic(t *testing.T) {
	const mnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

	a, err := FromMnemonic(mnemonic, "")
	require.NoError(t, err)
	b, err := FromMnemonic(mnemonic, "")
	require.NoError(t, err)
	assert.Equal(t, a.Serialize(), b.Serialize())

	c, err := FromMnemonic(mnemonic, "passphrase")
	require.NoError(t, err)
	assert.NotEqual(t, a.Serialize(), c.Serialize())

	_, err = FromMnemonic("definitely not a mnemonic", "")
	require.Error(t, err)
}

func TestFromSeedRole(t *testing.T) {
	a := FromSeedRole("alice", "active", "seed phrase")
	b := FromSeedRole("alice", "active", "seed phrase")
	assert.Equal(t, a.Serialize(), b.Serialize())

	other := FromSeedRole("alice", "regular", "seed phrase")
	assert.NotEqual(t, a.Serialize(), other.Serialize())
}

func TestRingResolve(t *testing.T) {
	ring := NewRing()

	_, err := ring.Resolve("alice", operations.RoleActive)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "alice", nf.Account)

	require.NoError(t, ring.AddWIF("alice", operations.RoleActive, vectorWIF))
	wif, err := ring.Resolve("alice", operations.RoleActive)
	require.NoError(t, err)
	assert.Equal(t, vectorWIF, wif)

	// Same account, different role is still a miss.
	_, err = ring.Resolve("alice", operations.RoleRegular)
	require.ErrorAs(t, err, &nf)
}

func TestRingRejectsInvalidWIF(t *testing.T) {
	ring := NewRing()
	require.Error(t, ring.AddWIF("alice", operations.RoleActive, "garbage"))
}
