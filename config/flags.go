package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Version is the hdgen release string.
const Version = "0.1.0"

// Flags holds parsed global command-line flags.
type Flags struct {
	// Commands
	Help    bool
	Version bool

	// Core
	DataDir string
	Config  string

	// Logging
	LogLevel string
	LogFile  string
	LogJSON  bool

	// Remaining args: the command and its own flags.
	Args []string

	// Explicitly-set bool flags (for true/false overrides).
	SetLogJSON bool
}

// ParseFlags parses the global flags in args (without the program name).
// Parsing stops at the first non-flag argument, the command name.
func ParseFlags(args []string) (*Flags, error) {
	f := &Flags{}
	fs := flag.NewFlagSet("hdgen", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	// Commands
	fs.BoolVar(&f.Help, "help", false, "Show help message")
	fs.BoolVar(&f.Help, "h", false, "Show help message (shorthand)")
	fs.BoolVar(&f.Version, "version", false, "Show version information")
	fs.BoolVar(&f.Version, "v", false, "Show version (shorthand)")

	// Core
	fs.StringVar(&f.DataDir, "datadir", "", "Data directory path")
	fs.StringVar(&f.Config, "config", "", "Config file path")
	fs.StringVar(&f.Config, "c", "", "Config file path (shorthand)")

	// Logging
	fs.StringVar(&f.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&f.LogFile, "log-file", "", "Log file path")
	fs.BoolVar(&f.LogJSON, "log-json", false, "Output logs as JSON")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			f.Help = true
			return f, nil
		}
		return nil, err
	}

	f.SetLogJSON = isFlagSet(fs, "log-json")
	f.Args = fs.Args()
	return f, nil
}

// ApplyFlags applies command-line flags to cfg.
func ApplyFlags(cfg *Config, f *Flags) {
	if f.DataDir != "" {
		cfg.DataDir = f.DataDir
	}
	if f.LogLevel != "" {
		cfg.Log.Level = f.LogLevel
	}
	if f.LogFile != "" {
		cfg.Log.File = f.LogFile
	}
	if f.SetLogJSON {
		cfg.Log.JSON = f.LogJSON
	}
}

func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// Usage is the global help text.
const Usage = `hdgen - offline multi-chain HD wallet batch generator

Usage:
  hdgen [global flags] <command> [flags]

Global flags:
  --help, -h      Show this help message
  --version, -v   Show version information
  --datadir       Data directory (default: ~/.hdgen)
  --config, -c    Config file path (default: <datadir>/hdgen.conf)
  --log-level     Log level: debug, info, warn, error (default: warn)
  --log-file      Log file (JSON lines); relative names go under <datadir>/logs
  --log-json      Output logs as JSON

Commands:
  generate [--count N] [--network NAME] [--words N] [--workers N]
           [--format table|json|csv] [--out FILE] [--show-secrets] [--encrypt]
                                  Generate a batch of wallets
  generate --chain evm|solana [--name N] [--rpc URL] [--chain-id ID] [--path T]
                                  Generate for an unsaved custom network
  networks                        List preset and custom networks
  network add --name N --chain evm|solana [--rpc URL] [--chain-id ID] [--path T]
                                  Save a custom network
  network remove --name N         Delete a custom network
  network clear                   Delete every custom network
  decrypt --in FILE [--out FILE]  Decrypt an encrypted export
  version                         Show version information
  help                            Show this help message

Environment:
  HDGEN_DATADIR, HDGEN_MAX_WALLETS, HDGEN_WORDS, HDGEN_WORKERS, HDGEN_NETWORK,
  HDGEN_FORMAT, HDGEN_SHOW_SECRETS, HDGEN_LOG_LEVEL, HDGEN_LOG_FILE, HDGEN_LOG_JSON

Examples:
  # Ten Ethereum wallets as CSV
  hdgen generate --count 10 --format csv --out wallets.csv

  # Five Solana devnet wallets, encrypted at rest
  hdgen generate --network "Solana Devnet" --count 5 --format json --out sol.json.enc --encrypt

Note:
  No network connections are made. RPC URLs and chain ids are descriptive
  metadata. Generated secrets are only written where --out points.
`

// PrintUsage writes the global help text to w.
func PrintUsage(w io.Writer) {
	fmt.Fprint(w, Usage)
}

// Load resolves configuration with the following precedence:
//  1. Default values
//  2. Config file (created with defaults on first run)
//  3. HDGEN_* environment variables
//  4. Command-line flags
func Load(args []string) (*Config, *Flags, error) {
	flags, err := ParseFlags(args)
	if err != nil {
		return nil, nil, err
	}

	cfg := Default()

	// The data directory locates the config file, so resolve it first.
	envDir, err := EnvDataDir()
	if err != nil {
		return nil, nil, err
	}
	if envDir != "" {
		cfg.DataDir = envDir
	}
	if flags.DataDir != "" {
		cfg.DataDir = flags.DataDir
	}

	if err := EnsureDataDirs(cfg); err != nil {
		return nil, nil, fmt.Errorf("ensuring data dirs: %w", err)
	}

	configPath := flags.Config
	if configPath == "" {
		configPath = cfg.ConfigFile()
	}
	fileValues, err := LoadFile(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config file: %w", err)
	}
	if err := ApplyFileConfig(cfg, fileValues); err != nil {
		return nil, nil, fmt.Errorf("applying config file: %w", err)
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, nil, err
	}
	ApplyFlags(cfg, flags)

	if err := Validate(cfg); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}
	if path := cfg.LogFilePath(); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, nil, fmt.Errorf("creating log directory: %w", err)
		}
	}
	return cfg, flags, nil
}

// EnsureDataDirs creates the data directory and a default config file if
// they don't already exist. Safe to call on every start.
func EnsureDataDirs(cfg *Config) error {
	for _, dir := range []string{cfg.DataDir, cfg.NetworksDir()} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	configPath := cfg.ConfigFile()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := WriteDefaultConfig(configPath); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}
	}
	return nil
}
