package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/scope/internal/rtx"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Config is the demo program configuration, usually read from scope.yaml.
type Config struct {
	Pool    PoolConfig    `mapstructure:"pool"`
	Log     LogConfig     `mapstructure:"log"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// PoolConfig sizes the simulated memory pool.
type PoolConfig struct {
	Blocks    int `mapstructure:"blocks"`
	BlockSize int `mapstructure:"block_size"`
}

// LogConfig selects the slog level (debug, info, warn, error).
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// RedisConfig enables the distributed critical section when Addr is set.
type RedisConfig struct {
	Addr   string `mapstructure:"addr"`
	Prefix string `mapstructure:"prefix"`
}

// MetricsConfig namespaces the Prometheus collectors.
type MetricsConfig struct {
	Namespace string `mapstructure:"namespace"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Pool:    PoolConfig{Blocks: 4, BlockSize: 128},
		Log:     LogConfig{Level: "info"},
		Redis:   RedisConfig{Prefix: "scope:"},
		Metrics: MetricsConfig{Namespace: "scope"},
	}
}

// Load reads a YAML config file on top of the defaults.
// A missing file is not an error: the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data, cfg)
}

// Parse decodes YAML into base. Scalars are weakly typed, so "8" and 8 both
// work for numeric fields.
func Parse(data []byte, base Config) (Config, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return base, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg := base
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return base, err
	}
	if err := dec.Decode(raw); err != nil {
		return base, fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return base, err
	}
	return cfg, nil
}

// Validate checks the values a demo run depends on.
func (c Config) Validate() error {
	if c.Pool.Blocks < 2 {
		// The stacked declaration scenario holds two blocks at once.
		return fmt.Errorf("pool.blocks must be at least 2, got %d", c.Pool.Blocks)
	}
	if c.Pool.BlockSize < rtx.MinBlockSize {
		return fmt.Errorf("pool.block_size must be at least %d, got %d", rtx.MinBlockSize, c.Pool.BlockSize)
	}
	return nil
}
