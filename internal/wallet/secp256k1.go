package wallet

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// BIP-32 accepts seeds between 128 and 512 bits.
const (
	minSeedSize = 16
	maxSeedSize = 64
)

var bitcoinSeedKey = []byte("Bitcoin seed")

// Secp256k1Deriver derives EVM accounts along BIP-32 paths.
type Secp256k1Deriver struct{}

// Derive walks path from the seed's master key and encodes the final key as a
// checksummed address and a hex private key.
func (Secp256k1Deriver) Derive(seed []byte, path Path) (Account, error) {
	km, err := DeriveSecp256k1(seed, path)
	if err != nil {
		return Account{}, err
	}
	defer km.Zero()

	priv := secp256k1.PrivKeyFromBytes(km.Key[:])
	defer priv.Zero()

	address, err := EncodeEVMAddress(priv.PubKey().SerializeUncompressed())
	if err != nil {
		return Account{}, err
	}
	secret, err := EncodeEVMPrivateKey(km.Key[:])
	if err != nil {
		return Account{}, err
	}
	return Account{Address: address, PrivateKey: secret}, nil
}

// DeriveSecp256k1 returns the extended private key at path.
func DeriveSecp256k1(seed []byte, path Path) (KeyMaterial, error) {
	km, err := Secp256k1MasterKey(seed)
	if err != nil {
		return KeyMaterial{}, err
	}
	for depth, seg := range path {
		child, err := Secp256k1Child(&km, seg)
		km.Zero()
		if err != nil {
			return KeyMaterial{}, fmt.Errorf("derive %s at depth %d: %w", seg, depth+1, err)
		}
		km = child
	}
	return km, nil
}

// Secp256k1MasterKey computes the BIP-32 master key: HMAC-SHA512("Bitcoin seed", seed).
func Secp256k1MasterKey(seed []byte) (KeyMaterial, error) {
	if len(seed) < minSeedSize || len(seed) > maxSeedSize {
		return KeyMaterial{}, fmt.Errorf("seed must be %d-%d bytes, got %d", minSeedSize, maxSeedSize, len(seed))
	}
	mac := hmac.New(sha512.New, bitcoinSeedKey)
	mac.Write(seed)
	i := mac.Sum(nil)
	defer clear(i)

	var km KeyMaterial
	km.split(i)

	var k secp256k1.ModNScalar
	defer k.Zero()
	if k.SetBytes(&km.Key) != 0 || k.IsZero() {
		km.Zero()
		return KeyMaterial{}, fmt.Errorf("master key: %w", ErrDerivationOverflow)
	}
	return km, nil
}

// Secp256k1Child performs one CKDpriv step. Hardened steps hash the parent
// private key, normal steps hash the compressed parent public key.
func Secp256k1Child(parent *KeyMaterial, seg Segment) (KeyMaterial, error) {
	var data [37]byte
	defer clear(data[:])
	if seg.Hardened {
		copy(data[1:33], parent.Key[:])
	} else {
		priv := secp256k1.PrivKeyFromBytes(parent.Key[:])
		copy(data[:33], priv.PubKey().SerializeCompressed())
		priv.Zero()
	}
	binary.BigEndian.PutUint32(data[33:], seg.Child())

	mac := hmac.New(sha512.New, parent.ChainCode[:])
	mac.Write(data[:])
	i := mac.Sum(nil)
	defer clear(i)

	var il, k secp256k1.ModNScalar
	defer il.Zero()
	defer k.Zero()
	if il.SetByteSlice(i[:32]) {
		return KeyMaterial{}, ErrDerivationOverflow
	}
	if k.SetBytes(&parent.Key) != 0 {
		return KeyMaterial{}, ErrDerivationOverflow
	}
	k.Add(&il)
	if k.IsZero() {
		return KeyMaterial{}, ErrDerivationOverflow
	}

	var child KeyMaterial
	child.Key = k.Bytes()
	copy(child.ChainCode[:], i[32:])
	return child, nil
}
