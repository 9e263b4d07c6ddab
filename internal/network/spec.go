// Package network holds the catalog of networks wallets can be generated
// for: built-in presets plus user-defined custom networks. RPC URLs and
// chain ids are descriptive metadata only; nothing here dials out.
package network

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Klingon-tech/hdgen/internal/wallet"
)

// Default derivation path templates.
const (
	EVMPathTemplate    = "m/44'/60'/0'/0/{index}"
	SolanaPathTemplate = "m/44'/501'/0'/0'/{index}'"
)

// DefaultCustomName is used when a custom network is created without a name.
const DefaultCustomName = "Custom Network"

var (
	ErrUnknownNetwork = errors.New("unknown network")
	ErrInvalidRPCURL  = errors.New("rpc url must start with http:// or https://")
	ErrPresetConflict = errors.New("name is reserved by a preset network")
	ErrInvalidName    = errors.New("invalid network name")
)

// Spec describes one network. Values are immutable once built; share them
// by value.
type Spec struct {
	Name         string           `json:"name"`
	Kind         wallet.ChainKind `json:"kind"`
	RPCURL       string           `json:"rpc_url,omitempty"`
	ChainID      *uint64          `json:"chain_id,omitempty"`
	PathTemplate string           `json:"path_template"`
	Custom       bool             `json:"custom"`
}

// Validate checks the kind, RPC URL and path template.
func (s Spec) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrInvalidName
	}
	if _, err := DefaultTemplate(s.Kind); err != nil {
		return err
	}
	if err := ValidateRPCURL(s.RPCURL); err != nil {
		return err
	}
	if err := wallet.ValidateTemplate(s.PathTemplate); err != nil {
		return fmt.Errorf("network %q: %w", s.Name, err)
	}
	return nil
}

// ChainIDString renders the chain id, or "-" when unset.
func (s Spec) ChainIDString() string {
	if s.ChainID == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *s.ChainID)
}

// DefaultTemplate returns the standard path template for kind.
func DefaultTemplate(kind wallet.ChainKind) (string, error) {
	switch kind {
	case wallet.ChainEVM:
		return EVMPathTemplate, nil
	case wallet.ChainSolana:
		return SolanaPathTemplate, nil
	}
	return "", fmt.Errorf("%w: %s", wallet.ErrUnsupportedChain, kind)
}

// ValidateRPCURL accepts an empty URL or one with an http(s) scheme.
func ValidateRPCURL(url string) error {
	if url == "" {
		return nil
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("%w: %q", ErrInvalidRPCURL, url)
	}
	return nil
}

// NewCustom builds a user-defined network. The name is trimmed and defaults
// to DefaultCustomName; an empty template selects the kind's default.
func NewCustom(name string, kind wallet.ChainKind, rpcURL string, chainID *uint64, template string) (Spec, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultCustomName
	}
	rpcURL = strings.TrimSpace(rpcURL)
	template = strings.TrimSpace(template)
	if template == "" {
		t, err := DefaultTemplate(kind)
		if err != nil {
			return Spec{}, err
		}
		template = t
	}

	s := Spec{
		Name:         name,
		Kind:         kind,
		RPCURL:       rpcURL,
		PathTemplate: template,
		Custom:       true,
	}
	if chainID != nil {
		id := *chainID
		s.ChainID = &id
	}
	if err := s.Validate(); err != nil {
		return Spec{}, err
	}
	return s, nil
}
