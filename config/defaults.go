package config

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DataDir: DefaultDataDir(),
		Generator: GeneratorConfig{
			MaxWalletCount: 10000,
			WordCount:      12,
			Workers:        1,
			Network:        "Ethereum",
		},
		Output: OutputConfig{
			Format: "table",
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}
