package config

import (
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	DataDir string  `koanf:"data_dir"` // override for the sqlite store location
	Volume  float64 `koanf:"volume"`   // initial playback volume (0.0-1.0, default: 0.7)
	Seed    *bool   `koanf:"seed"`     // install the demo catalog when the store is empty (default: true)

	// Simulated payment gateway settings
	Payments PaymentsConfig `koanf:"payments"`
}

// PaymentsConfig tunes the simulated membership payment gateway.
type PaymentsConfig struct {
	FailureRate *float64 `koanf:"failure_rate"` // verification failure probability (0.0-1.0, default: 0.2)
	MinDelayMs  int      `koanf:"min_delay_ms"` // gateway latency lower bound (default: 2000)
	MaxDelayMs  int      `koanf:"max_delay_ms"` // gateway latency upper bound (default: 3000)
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	configPaths := getConfigPaths()

	for _, path := range configPaths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{
		Volume: 0.7,
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if cfg.DataDir != "" {
		cfg.DataDir = expandPath(cfg.DataDir)
	}
	if cfg.Volume < 0 || cfg.Volume > 1 {
		cfg.Volume = 0.7
	}

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/backline/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "backline", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// SeedEnabled reports whether the demo catalog should be installed into an
// empty store.
func (c *Config) SeedEnabled() bool {
	return c.Seed == nil || *c.Seed
}

// GetFailureRate returns the verification failure probability with the
// default applied.
func (p PaymentsConfig) GetFailureRate() float64 {
	if p.FailureRate == nil || *p.FailureRate < 0 || *p.FailureRate > 1 {
		return 0.2
	}
	return *p.FailureRate
}

// GetPaymentsConfig returns the payment gateway settings with defaults
// applied.
func (c *Config) GetPaymentsConfig() PaymentsConfig {
	cfg := c.Payments

	// Apply defaults
	if cfg.MinDelayMs <= 0 {
		cfg.MinDelayMs = 2000
	}
	if cfg.MaxDelayMs < cfg.MinDelayMs {
		cfg.MaxDelayMs = 3000
	}

	return cfg
}
