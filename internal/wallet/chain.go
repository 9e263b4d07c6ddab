package wallet

import (
	"fmt"
	"strings"
)

// ChainKind selects the curve and address family used for a network.
type ChainKind uint8

const (
	// ChainEVM covers account-model chains keyed on secp256k1.
	ChainEVM ChainKind = iota + 1
	// ChainSolana covers chains keyed on ed25519 with fully hardened paths.
	ChainSolana
)

// String returns the display name of the chain kind.
func (k ChainKind) String() string {
	switch k {
	case ChainEVM:
		return "EVM"
	case ChainSolana:
		return "Solana"
	default:
		return fmt.Sprintf("ChainKind(%d)", uint8(k))
	}
}

// ParseChainKind accepts "evm" or "solana" (case-insensitive).
func ParseChainKind(s string) (ChainKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "evm":
		return ChainEVM, nil
	case "solana", "sol":
		return ChainSolana, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedChain, s)
	}
}

// MarshalText encodes the kind as its lowercase name.
func (k ChainKind) MarshalText() ([]byte, error) {
	switch k {
	case ChainEVM, ChainSolana:
		return []byte(strings.ToLower(k.String())), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedChain, uint8(k))
	}
}

// UnmarshalText decodes a kind previously written by MarshalText.
func (k *ChainKind) UnmarshalText(text []byte) error {
	kind, err := ParseChainKind(string(text))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}
