package wallet

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/Klingon-tech/hdgen/internal/log"
)

// Account is the encoded result of one derivation.
type Account struct {
	Address    string
	PrivateKey string
}

// Deriver turns a BIP-39 seed and a path into an encoded account.
type Deriver interface {
	Derive(seed []byte, path Path) (Account, error)
}

// Record is one generated wallet. It is immutable once produced.
type Record struct {
	Index          int       `json:"index"`
	Chain          ChainKind `json:"chain"`
	Network        string    `json:"network"`
	Address        string    `json:"address"`
	Mnemonic       string    `json:"mnemonic"`
	DerivationPath string    `json:"derivation_path"`
	PrivateKey     string    `json:"private_key"`
}

// Engine holds the mnemonic source and the deriver table. Build one at
// startup and share it; it carries no per-call state.
type Engine struct {
	mnemonics *MnemonicEngine
	derivers  map[ChainKind]Deriver
	logger    zerolog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithEntropy replaces the crypto/rand entropy source.
func WithEntropy(r io.Reader) EngineOption {
	return func(e *Engine) {
		e.mnemonics = NewMnemonicEngine(r)
	}
}

// WithDeriver registers or replaces the deriver for kind.
func WithDeriver(kind ChainKind, d Deriver) EngineOption {
	return func(e *Engine) {
		e.derivers[kind] = d
	}
}

// WithEngineLogger replaces the wallet component logger.
func WithEngineLogger(l zerolog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = l
	}
}

// NewEngine returns an engine with the EVM and Solana derivers registered.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		mnemonics: NewMnemonicEngine(nil),
		derivers: map[ChainKind]Deriver{
			ChainEVM:    Secp256k1Deriver{},
			ChainSolana: Ed25519Deriver{},
		},
		logger: log.Wallet,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Mnemonics returns the engine's mnemonic generator.
func (e *Engine) Mnemonics() *MnemonicEngine {
	return e.mnemonics
}

// Supports reports whether a deriver is registered for kind.
func (e *Engine) Supports(kind ChainKind) bool {
	_, ok := e.derivers[kind]
	return ok
}

// Deriver returns the deriver registered for kind.
func (e *Engine) Deriver(kind ChainKind) (Deriver, error) {
	d, ok := e.derivers[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedChain, kind)
	}
	return d, nil
}

// DeriveAccount derives the account at path for a mnemonic with an empty
// passphrase. The seed is zeroed before returning.
func (e *Engine) DeriveAccount(kind ChainKind, mnemonic string, path Path) (Account, error) {
	d, err := e.Deriver(kind)
	if err != nil {
		return Account{}, err
	}
	seed, err := SeedFromMnemonic(mnemonic, "")
	if err != nil {
		return Account{}, err
	}
	defer clear(seed)

	// Only the kind and path are logged; never the mnemonic or the key.
	if e.logger.GetLevel() <= zerolog.DebugLevel {
		l := e.logger.With().Str("kind", kind.String()).Str("path", path.String()).Logger()
		defer log.Benchmark(l, "derive")()
	}
	return d.Derive(seed, path)
}
