package wallet

import (
	"fmt"

	"github.com/tyler-smith/go-bip39"
	"golang.org/x/text/unicode/norm"
)

// SeedSize is the length of a derived seed in bytes (512 bits).
const SeedSize = 64

// SeedFromMnemonic derives a 512-bit seed from a mnemonic and optional passphrase
// using PBKDF2-SHA512 as specified in BIP-39. Both inputs are NFKD-normalized.
func SeedFromMnemonic(mnemonic, passphrase string) ([]byte, error) {
	mnemonic = norm.NFKD.String(mnemonic)
	if !ValidateMnemonic(mnemonic) {
		return nil, ErrInvalidMnemonic
	}
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, norm.NFKD.String(passphrase))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMnemonic, err)
	}
	return seed, nil
}
