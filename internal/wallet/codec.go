package wallet

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gagliardetto/solana-go"
)

// EVMAddressSize is the length of an EVM account address in bytes.
const EVMAddressSize = 20

// EncodeEVMAddress hashes a 65-byte uncompressed public key with keccak-256
// and returns the last 20 bytes as an EIP-55 checksummed address.
func EncodeEVMAddress(pub []byte) (string, error) {
	if len(pub) != 65 || pub[0] != 0x04 {
		return "", fmt.Errorf("%w: expected 65-byte uncompressed public key, got %d bytes", ErrEncoding, len(pub))
	}
	key, err := crypto.UnmarshalPubkey(pub)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return crypto.PubkeyToAddress(*key).Hex(), nil
}

// ChecksumAddress renders addr as 0x-prefixed EIP-55 mixed-case hex.
func ChecksumAddress(addr [EVMAddressSize]byte) string {
	return common.Address(addr).Hex()
}

// IsChecksumAddress reports whether s is a correctly checksummed EVM address.
func IsChecksumAddress(s string) bool {
	if !strings.HasPrefix(s, "0x") || !common.IsHexAddress(s) {
		return false
	}
	return common.HexToAddress(s).Hex() == s
}

// EncodeEVMPrivateKey renders a 32-byte secp256k1 scalar as 64 lowercase hex chars.
func EncodeEVMPrivateKey(key []byte) (string, error) {
	if len(key) != 32 {
		return "", fmt.Errorf("%w: private key must be 32 bytes, got %d", ErrEncoding, len(key))
	}
	return hex.EncodeToString(key), nil
}

// EncodeSolanaKeypair expands a 32-byte ed25519 seed and returns the Base58
// public key and the Base58 64-byte secret key (seed || public key).
func EncodeSolanaKeypair(seed []byte) (address, secret string, err error) {
	if len(seed) != ed25519.SeedSize {
		return "", "", fmt.Errorf("%w: ed25519 seed must be %d bytes, got %d", ErrEncoding, ed25519.SeedSize, len(seed))
	}
	priv := ed25519.NewKeyFromSeed(seed)
	defer clear(priv)

	kp := solana.PrivateKey(priv)
	if err := kp.Validate(); err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return kp.PublicKey().String(), kp.String(), nil
}
