package wallet

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"fmt"
)

var ed25519SeedKey = []byte("ed25519 seed")

// Ed25519Deriver derives Solana accounts along SLIP-0010 paths.
//
// SLIP-0010 defines only hardened derivation for ed25519, so every segment is
// derived as hardened even when the path text omits the marker:
// m/44'/501'/0/0 yields the same key as m/44'/501'/0'/0'. Existing wallets
// depend on this, so non-hardened segments are coerced rather than rejected.
type Ed25519Deriver struct{}

// Derive walks path from the seed's master key and encodes the resulting
// keypair as Base58 address and Base58 64-byte secret key.
func (Ed25519Deriver) Derive(seed []byte, path Path) (Account, error) {
	km, err := DeriveEd25519(seed, path)
	if err != nil {
		return Account{}, err
	}
	defer km.Zero()

	address, secret, err := EncodeSolanaKeypair(km.Key[:])
	if err != nil {
		return Account{}, err
	}
	return Account{Address: address, PrivateKey: secret}, nil
}

// DeriveEd25519 returns the SLIP-0010 key and chain code at path.
func DeriveEd25519(seed []byte, path Path) (KeyMaterial, error) {
	km, err := Ed25519MasterKey(seed)
	if err != nil {
		return KeyMaterial{}, err
	}
	for _, seg := range path {
		child := Ed25519Child(&km, seg)
		km.Zero()
		km = child
	}
	return km, nil
}

// Ed25519MasterKey computes HMAC-SHA512("ed25519 seed", seed).
func Ed25519MasterKey(seed []byte) (KeyMaterial, error) {
	if len(seed) < minSeedSize || len(seed) > maxSeedSize {
		return KeyMaterial{}, fmt.Errorf("seed must be %d-%d bytes, got %d", minSeedSize, maxSeedSize, len(seed))
	}
	mac := hmac.New(sha512.New, ed25519SeedKey)
	mac.Write(seed)
	i := mac.Sum(nil)
	defer clear(i)

	var km KeyMaterial
	km.split(i)
	return km, nil
}

// Ed25519Child performs one hardened SLIP-0010 step. The hardened bit is
// forced regardless of seg.Hardened.
func Ed25519Child(parent *KeyMaterial, seg Segment) KeyMaterial {
	var data [37]byte
	defer clear(data[:])
	copy(data[1:33], parent.Key[:])
	binary.BigEndian.PutUint32(data[33:], seg.Index|HardenedOffset)

	mac := hmac.New(sha512.New, parent.ChainCode[:])
	mac.Write(data[:])
	i := mac.Sum(nil)
	defer clear(i)

	var child KeyMaterial
	child.split(i)
	return child
}
