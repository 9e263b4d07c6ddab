package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "HDGEN"

// envOverrides mirrors Config with pointer fields so unset variables leave
// the lower layers untouched.
type envOverrides struct {
	DataDir        *string `envconfig:"DATADIR"`
	MaxWalletCount *int    `envconfig:"MAX_WALLETS"`
	WordCount      *int    `envconfig:"WORDS"`
	Workers        *int    `envconfig:"WORKERS"`
	Network        *string `envconfig:"NETWORK"`
	Format         *string `envconfig:"FORMAT"`
	ShowSecrets    *bool   `envconfig:"SHOW_SECRETS"`
	LogLevel       *string `envconfig:"LOG_LEVEL"`
	LogFile        *string `envconfig:"LOG_FILE"`
	LogJSON        *bool   `envconfig:"LOG_JSON"`
}

// EnvDataDir returns HDGEN_DATADIR when set. The data directory must be
// known before the config file can be located.
func EnvDataDir() (string, error) {
	var e envOverrides
	if err := envconfig.Process(EnvPrefix, &e); err != nil {
		return "", fmt.Errorf("environment: %w", err)
	}
	if e.DataDir == nil {
		return "", nil
	}
	return *e.DataDir, nil
}

// ApplyEnv applies HDGEN_* environment variables to cfg.
func ApplyEnv(cfg *Config) error {
	var e envOverrides
	if err := envconfig.Process(EnvPrefix, &e); err != nil {
		return fmt.Errorf("environment: %w", err)
	}

	if e.DataDir != nil {
		cfg.DataDir = *e.DataDir
	}
	if e.MaxWalletCount != nil {
		cfg.Generator.MaxWalletCount = *e.MaxWalletCount
	}
	if e.WordCount != nil {
		cfg.Generator.WordCount = *e.WordCount
	}
	if e.Workers != nil {
		cfg.Generator.Workers = *e.Workers
	}
	if e.Network != nil {
		cfg.Generator.Network = *e.Network
	}
	if e.Format != nil {
		cfg.Output.Format = *e.Format
	}
	if e.ShowSecrets != nil {
		cfg.Output.ShowSecrets = *e.ShowSecrets
	}
	if e.LogLevel != nil {
		cfg.Log.Level = *e.LogLevel
	}
	if e.LogFile != nil {
		cfg.Log.File = *e.LogFile
	}
	if e.LogJSON != nil {
		cfg.Log.JSON = *e.LogJSON
	}
	return nil
}
