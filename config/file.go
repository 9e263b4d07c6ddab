package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LoadFile reads a .conf file. Format: key = value, one per line, # for
// comments. A missing file yields no values.
func LoadFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}
	defer file.Close()

	values := make(map[string]string)
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("line %d: invalid format (expected key = value)", lineNum)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}
		values[key] = value
	}

	return values, scanner.Err()
}

// ApplyFileConfig applies file values to cfg.
func ApplyFileConfig(cfg *Config, values map[string]string) error {
	for key, value := range values {
		if err := setConfigValue(cfg, key, value); err != nil {
			return fmt.Errorf("config key %q: %w", key, err)
		}
	}
	return nil
}

func setConfigValue(cfg *Config, key, value string) error {
	switch key {
	case "datadir":
		cfg.DataDir = value

	// Generator
	case "generator.max_wallets":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.Generator.MaxWalletCount = n
	case "generator.words":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.Generator.WordCount = n
	case "generator.workers":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.Generator.Workers = n
	case "generator.network", "network":
		cfg.Generator.Network = value

	// Output
	case "output.format", "format":
		cfg.Output.Format = value
	case "output.show_secrets":
		cfg.Output.ShowSecrets = parseBool(value)

	// Logging
	case "log.level":
		cfg.Log.Level = value
	case "log.file":
		cfg.Log.File = value
	case "log.json":
		cfg.Log.JSON = parseBool(value)

	default:
		// Unknown keys are ignored
	}
	return nil
}

func parseBool(s string) bool {
	s = strings.ToLower(s)
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// WriteDefaultConfig writes a commented default config file.
func WriteDefaultConfig(path string) error {
	content := `# hdgen configuration
#
# Precedence: this file < HDGEN_* environment variables < command-line flags.
# Generated wallets are never written to the data directory.

# ============================================================================
# Generator
# ============================================================================

# Largest batch a single generate call accepts
generator.max_wallets = 10000

# Mnemonic length: 12, 15, 18, 21 or 24
generator.words = 12

# Wallets derived in parallel (1 = sequential)
generator.workers = 1

# Network used when generate is called without --network
generator.network = Ethereum

# ============================================================================
# Output
# ============================================================================

# table, json or csv
output.format = table

# Print mnemonics and private keys in table output
output.show_secrets = false

# ============================================================================
# Logging
# ============================================================================

log.level = warn
# Relative names are written under <datadir>/logs
# log.file = hdgen.log
log.json = false
`
	return os.WriteFile(path, []byte(content), 0600)
}
