package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault_Valid(t *testing.T) {
	cfg := Default()
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate(Default()) error: %v", err)
	}
	if cfg.Generator.MaxWalletCount != 10000 {
		t.Errorf("MaxWalletCount = %d, want 10000", cfg.Generator.MaxWalletCount)
	}
	if cfg.Generator.WordCount != 12 || cfg.Generator.Network != "Ethereum" {
		t.Errorf("generator defaults = %+v", cfg.Generator)
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty datadir", func(c *Config) { c.DataDir = "" }},
		{"zero max", func(c *Config) { c.Generator.MaxWalletCount = 0 }},
		{"bad words", func(c *Config) { c.Generator.WordCount = 13 }},
		{"zero workers", func(c *Config) { c.Generator.Workers = 0 }},
		{"too many workers", func(c *Config) { c.Generator.Workers = MaxWorkers + 1 }},
		{"empty network", func(c *Config) { c.Generator.Network = " " }},
		{"bad format", func(c *Config) { c.Output.Format = "xml" }},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := Validate(cfg); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
	if err := Validate(nil); err == nil {
		t.Error("Validate(nil) should fail")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hdgen.conf")
	content := `# comment
generator.words = 24
generator.network = "Solana Devnet"
output.show_secrets = yes

log.level = 'debug'
unknown.key = ignored
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	values, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	cfg := Default()
	if err := ApplyFileConfig(cfg, values); err != nil {
		t.Fatalf("ApplyFileConfig() error: %v", err)
	}
	if cfg.Generator.WordCount != 24 {
		t.Errorf("WordCount = %d, want 24", cfg.Generator.WordCount)
	}
	if cfg.Generator.Network != "Solana Devnet" {
		t.Errorf("Network = %q", cfg.Generator.Network)
	}
	if !cfg.Output.ShowSecrets {
		t.Error("ShowSecrets should be true")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	values, err := LoadFile(filepath.Join(t.TempDir(), "absent.conf"))
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if len(values) != 0 {
		t.Errorf("got %d values from missing file", len(values))
	}
}

func TestLoadFile_BadLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.conf")
	os.WriteFile(path, []byte("generator.words 24\n"), 0600)
	if _, err := LoadFile(path); err == nil {
		t.Error("LoadFile() should reject a line without =")
	}
}

func TestApplyFileConfig_BadNumber(t *testing.T) {
	err := ApplyFileConfig(Default(), map[string]string{"generator.workers": "many"})
	if err == nil || !strings.Contains(err.Error(), "generator.workers") {
		t.Errorf("ApplyFileConfig() error = %v", err)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("HDGEN_MAX_WALLETS", "50")
	t.Setenv("HDGEN_WORKERS", "4")
	t.Setenv("HDGEN_FORMAT", "csv")
	t.Setenv("HDGEN_LOG_JSON", "true")

	cfg := Default()
	if err := ApplyEnv(cfg); err != nil {
		t.Fatalf("ApplyEnv() error: %v", err)
	}
	if cfg.Generator.MaxWalletCount != 50 || cfg.Generator.Workers != 4 {
		t.Errorf("generator = %+v", cfg.Generator)
	}
	if cfg.Output.Format != "csv" || !cfg.Log.JSON {
		t.Errorf("output/log = %+v %+v", cfg.Output, cfg.Log)
	}
	if cfg.Generator.WordCount != 12 {
		t.Errorf("unset variable changed WordCount to %d", cfg.Generator.WordCount)
	}
}

func TestApplyEnv_BadValue(t *testing.T) {
	t.Setenv("HDGEN_WORKERS", "lots")
	if err := ApplyEnv(Default()); err == nil {
		t.Error("ApplyEnv() should reject a non-numeric worker count")
	}
}

func TestParseFlags(t *testing.T) {
	f, err := ParseFlags([]string{"--datadir", "/tmp/x", "--log-json=false", "generate", "--count", "3"})
	if err != nil {
		t.Fatalf("ParseFlags() error: %v", err)
	}
	if f.DataDir != "/tmp/x" {
		t.Errorf("DataDir = %q", f.DataDir)
	}
	if !f.SetLogJSON || f.LogJSON {
		t.Errorf("log-json set=%v value=%v", f.SetLogJSON, f.LogJSON)
	}
	if len(f.Args) != 3 || f.Args[0] != "generate" {
		t.Errorf("Args = %v", f.Args)
	}

	f, err = ParseFlags([]string{"-h"})
	if err != nil || !f.Help {
		t.Errorf("ParseFlags(-h) = %+v, %v", f, err)
	}
	if _, err := ParseFlags([]string{"--bogus"}); err == nil {
		t.Error("ParseFlags() should reject unknown flags")
	}
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	conf := "generator.workers = 2\ngenerator.words = 15\nlog.level = info\n"
	if err := os.WriteFile(filepath.Join(dir, "hdgen.conf"), []byte(conf), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HDGEN_WORKERS", "6")
	t.Setenv("HDGEN_LOG_LEVEL", "error")

	cfg, flags, err := Load([]string{"--datadir", dir, "--log-level", "debug", "networks"})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Generator.WordCount != 15 {
		t.Errorf("WordCount = %d, want 15 from file", cfg.Generator.WordCount)
	}
	if cfg.Generator.Workers != 6 {
		t.Errorf("Workers = %d, want 6 from env", cfg.Generator.Workers)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug from flags", cfg.Log.Level)
	}
	if len(flags.Args) != 1 || flags.Args[0] != "networks" {
		t.Errorf("Args = %v", flags.Args)
	}
}

func TestLoad_CreatesDefaultConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "fresh")
	cfg, _, err := Load([]string{"--datadir", dir})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	values, err := LoadFile(cfg.ConfigFile())
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if values["generator.max_wallets"] != "10000" {
		t.Errorf("default config max_wallets = %q", values["generator.max_wallets"])
	}
	if _, err := os.Stat(cfg.NetworksDir()); err != nil {
		t.Errorf("networks dir not created: %v", err)
	}
	if _, err := os.Stat(cfg.LogsDir()); !os.IsNotExist(err) {
		t.Errorf("logs dir created without a log file: %v", err)
	}
}

func TestLogFilePath(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "out.log")
	tests := []struct {
		file string
		want string
	}{
		{"", ""},
		{"hdgen.log", filepath.Join("/data", "logs", "hdgen.log")},
		{abs, abs},
	}
	for _, tt := range tests {
		cfg := Default()
		cfg.DataDir = "/data"
		cfg.Log.File = tt.file
		if got := cfg.LogFilePath(); got != tt.want {
			t.Errorf("LogFilePath(%q) = %q, want %q", tt.file, got, tt.want)
		}
	}
}

func TestLoad_RelativeLogFileCreatesLogsDir(t *testing.T) {
	dir := t.TempDir()
	cfg, _, err := Load([]string{"--datadir", dir, "--log-file", "hdgen.log"})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got := cfg.LogFilePath(); got != filepath.Join(dir, "logs", "hdgen.log") {
		t.Errorf("LogFilePath() = %q", got)
	}
	if _, err := os.Stat(cfg.LogsDir()); err != nil {
		t.Errorf("logs dir not created: %v", err)
	}
}

func TestLoad_EnvDataDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HDGEN_DATADIR", dir)
	cfg, _, err := Load(nil)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.DataDir != dir {
		t.Errorf("DataDir = %q, want %q", cfg.DataDir, dir)
	}
}
