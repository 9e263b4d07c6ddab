package config

import (
	"fmt"
	"strings"

	"github.com/Klingon-tech/hdgen/internal/export"
	"github.com/Klingon-tech/hdgen/internal/log"
	"github.com/Klingon-tech/hdgen/internal/wallet"
)

// MaxWorkers caps parallel derivation.
const MaxWorkers = 64

// Validate checks cfg for obvious mistakes.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		return fmt.Errorf("datadir must not be empty")
	}
	if cfg.Generator.MaxWalletCount < 1 {
		return fmt.Errorf("generator.max_wallets must be at least 1")
	}
	if _, err := wallet.EntropyBits(cfg.Generator.WordCount); err != nil {
		return fmt.Errorf("generator.words: %w", err)
	}
	if cfg.Generator.Workers < 1 || cfg.Generator.Workers > MaxWorkers {
		return fmt.Errorf("generator.workers must be in range [1, %d]", MaxWorkers)
	}
	if strings.TrimSpace(cfg.Generator.Network) == "" {
		return fmt.Errorf("generator.network must not be empty")
	}
	if _, err := export.ParseFormat(cfg.Output.Format); err != nil {
		return fmt.Errorf("output.format: %w", err)
	}
	if !log.ValidLevel(cfg.Log.Level) {
		return fmt.Errorf("log.level must be debug, info, warn or error")
	}
	return nil
}
