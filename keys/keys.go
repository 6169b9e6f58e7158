// Package keys handles the key material formats of the chain: WIF-encoded
// private keys, prefix+base58 public key strings, and mnemonic seed import.
// It stays on the collaborator side of the client core: the client only ever
// asks a KeyStore for the signing key of an (account, role) pair.
package keys

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/mr-tron/base58"
	"github.com/tyler-smith/go-bip39"
	"golang.org/x/crypto/ripemd160"
)

// wifVersion is the version byte of a WIF-encoded private key.
const wifVersion = 0x80

// EncodeWIF renders a private key in wallet import format:
// base58(0x80 ‖ key ‖ first4(sha256²)).
func EncodeWIF(key *secp256k1.PrivateKey) string {
	payload := append([]byte{wifVersion}, key.Serialize()...)
	return base58.Encode(append(payload, checksum(payload)...))
}

// DecodeWIF parses a WIF string back into a private key, verifying the
// version byte and checksum.
func DecodeWIF(wif string) (*secp256k1.PrivateKey, error) {
	raw, err := base58.Decode(wif)
	if err != nil {
		return nil, fmt.Errorf("keys: decode wif: %w", err)
	}
	if len(raw) != 1+32+4 {
		return nil, fmt.Errorf("keys: decode wif: unexpected length %d", len(raw))
	}
	payload, check := raw[:33], raw[33:]
	if payload[0] != wifVersion {
		return nil, fmt.Errorf("keys: decode wif: unexpected version byte %#x", payload[0])
	}
	if !bytes.Equal(check, checksum(payload)) {
		return nil, fmt.Errorf("keys: decode wif: checksum mismatch")
	}
	return secp256k1.PrivKeyFromBytes(payload[1:]), nil
}

func checksum(payload []byte) []byte {
	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	return second[:4]
}

// PublicKeyString renders a public key in the chain's address format:
// prefix ‖ base58(compressed ‖ first4(ripemd160(compressed))).
func PublicKeyString(pub *secp256k1.PublicKey, prefix string) string {
	ser := pub.SerializeCompressed()
	h := ripemd160.New()
	h.Write(ser)
	return prefix + base58.Encode(append(ser, h.Sum(nil)[:4]...))
}

// ParsePublicKey decodes a prefix+base58 public key string.
func ParsePublicKey(s, prefix string) (*secp256k1.PublicKey, error) {
	if !strings.HasPrefix(s, prefix) {
		return nil, fmt.Errorf("keys: public key %q lacks prefix %q", s, prefix)
	}
	raw, err := base58.Decode(strings.TrimPrefix(s, prefix))
	if err != nil {
		return nil, fmt.Errorf("keys: decode public key: %w", err)
	}
	if len(raw) != 33+4 {
		return nil, fmt.Errorf("keys: decode public key: unexpected length %d", len(raw))
	}
	ser, check := raw[:33], raw[33:]
	h := ripemd160.New()
	h.Write(ser)
	if !bytes.Equal(check, h.Sum(nil)[:4]) {
		return nil, fmt.Errorf("keys: decode public key: checksum mismatch")
	}
	return secp256k1.ParsePubKey(ser)
}

// FromMnemonic derives a private key from a BIP-39 mnemonic and passphrase.
// The derivation is deterministic: sha256 of the seed, interpreted as a
// scalar.
func FromMnemonic(mnemonic, passphrase string) (*secp256k1.PrivateKey, error) {
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, passphrase)
	if err != nil {
		return nil, fmt.Errorf("keys: invalid mnemonic: %w", err)
	}
	digest := sha256.Sum256(seed)
	return secp256k1.PrivKeyFromBytes(digest[:]), nil
}

// FromSeedRole derives the key for one account role the way chain tooling
// does: sha256("<account><role><seed>").
func FromSeedRole(account, role, seed string) *secp256k1.PrivateKey {
	digest := sha256.Sum256([]byte(account + role + seed))
	return secp256k1.PrivKeyFromBytes(digest[:])
}
