// Package config handles hdgen configuration.
//
// Settings are resolved in layers: built-in defaults, the config file in the
// data directory, HDGEN_* environment variables, then command-line flags.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Config holds runtime settings.
type Config struct {
	DataDir string `conf:"datadir"`

	Generator GeneratorConfig
	Output    OutputConfig
	Log       LogConfig
}

// GeneratorConfig holds batch generation settings.
type GeneratorConfig struct {
	MaxWalletCount int    `conf:"generator.max_wallets"`
	WordCount      int    `conf:"generator.words"`
	Workers        int    `conf:"generator.workers"`
	Network        string `conf:"generator.network"` // Default network name
}

// OutputConfig holds rendering settings.
type OutputConfig struct {
	Format      string `conf:"output.format"` // table, json or csv
	ShowSecrets bool   `conf:"output.show_secrets"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	File  string `conf:"log.file"`
	JSON  bool   `conf:"log.json"`
}

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.hdgen
//	macOS:   ~/Library/Application Support/hdgen
//	Windows: %APPDATA%\hdgen
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".hdgen"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "hdgen")
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "hdgen")
		}
		return filepath.Join(home, "AppData", "Roaming", "hdgen")
	default:
		return filepath.Join(home, ".hdgen")
	}
}

// ConfigFile returns the config file path.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, "hdgen.conf")
}

// NetworksDir returns the custom network registry directory.
func (c *Config) NetworksDir() string {
	return filepath.Join(c.DataDir, "networks")
}

// LogsDir returns the directory that holds relative log files.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// LogFilePath resolves Log.File. Relative names live under LogsDir; an
// empty name disables file logging.
func (c *Config) LogFilePath() string {
	if c.Log.File == "" || filepath.IsAbs(c.Log.File) {
		return c.Log.File
	}
	return filepath.Join(c.LogsDir(), c.Log.File)
}
