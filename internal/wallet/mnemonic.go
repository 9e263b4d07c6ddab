// Package wallet implements HD wallet derivation for EVM and Solana chains.
package wallet

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"

	"github.com/tyler-smith/go-bip39"
)

// DefaultWordCount is the mnemonic length used when none is requested.
const DefaultWordCount = 12

// entropyBits maps supported word counts to BIP-39 entropy strength.
var entropyBits = map[int]int{
	12: 128,
	15: 160,
	18: 192,
	21: 224,
	24: 256,
}

// MnemonicEngine generates and validates BIP-39 English mnemonics.
// Reads from the entropy source are serialized, so one engine may be shared
// by concurrent generators.
type MnemonicEngine struct {
	mu      sync.Mutex
	entropy io.Reader
}

// NewMnemonicEngine returns an engine drawing entropy from r.
// A nil reader selects crypto/rand.
func NewMnemonicEngine(r io.Reader) *MnemonicEngine {
	if r == nil {
		r = rand.Reader
	}
	return &MnemonicEngine{entropy: r}
}

// EntropyBits returns the entropy strength for a word count.
func EntropyBits(wordCount int) (int, error) {
	bits, ok := entropyBits[wordCount]
	if !ok {
		return 0, fmt.Errorf("%w: %d (must be 12, 15, 18, 21 or 24)", ErrInvalidWordCount, wordCount)
	}
	return bits, nil
}

// Generate creates a new mnemonic of the given length.
func (e *MnemonicEngine) Generate(wordCount int) (string, error) {
	bits, err := EntropyBits(wordCount)
	if err != nil {
		return "", err
	}
	entropy := make([]byte, bits/8)
	defer clear(entropy)
	e.mu.Lock()
	_, err = io.ReadFull(e.entropy, entropy)
	e.mu.Unlock()
	if err != nil {
		return "", fmt.Errorf("read entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("generate mnemonic: %w", err)
	}
	return mnemonic, nil
}

// Validate checks word count, wordlist membership and checksum.
func (e *MnemonicEngine) Validate(mnemonic string) bool {
	return ValidateMnemonic(mnemonic)
}

// ValidateMnemonic checks if a mnemonic is valid per BIP-39
// (correct word count, valid words, valid checksum).
func ValidateMnemonic(mnemonic string) bool {
	return bip39.IsMnemonicValid(mnemonic)
}
