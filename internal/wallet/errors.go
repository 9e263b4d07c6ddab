package wallet

import "errors"

// Derivation errors. Callers match them with errors.Is.
var (
	ErrInvalidWordCount   = errors.New("unsupported mnemonic word count")
	ErrInvalidMnemonic    = errors.New("mnemonic failed checksum validation")
	ErrUnsupportedChain   = errors.New("unsupported chain kind")
	ErrDerivationOverflow = errors.New("derived scalar is zero or exceeds curve order")
	ErrEncoding           = errors.New("malformed key material for encoding")
	ErrInvalidPath        = errors.New("invalid derivation path")
)
