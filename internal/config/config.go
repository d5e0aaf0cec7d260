// Package config loads derivation profiles from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/and161185/argon2kdf/kdf"
)

// Config is a derivation profile. Zero-valued fields in a file keep their defaults.
type Config struct {
	Cost       kdf.CostParameters `yaml:"cost"`
	Length     int                `yaml:"length"`
	StrictSalt bool               `yaml:"strict_salt"`
	// MemoryBudgetKiB bounds concurrent derivations (see kdf.Limiter).
	MemoryBudgetKiB int64 `yaml:"memory_budget_kib"`
	Log             Log   `yaml:"log"`
}

// Log configures the logger.
type Log struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the built-in profile: kdf.DefaultCost, 32-byte keys, budget
// for four default derivations.
func Default() Config {
	return Config{
		Cost:            kdf.DefaultCost,
		Length:          kdf.DefaultKeyLen,
		MemoryBudgetKiB: 4 * int64(kdf.DefaultCost.MemoryKiB),
		Log:             Log{Level: "warn"},
	}
}

// Load reads the profile at path over Default. An empty path returns Default.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := cfg.decode(b); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) decode(b []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return c.Validate()
}

// Validate checks the profile against the kdf constraints.
func (c Config) Validate() error {
	if err := c.Cost.Validate(); err != nil {
		return err
	}
	if c.Length < kdf.MinKeyLen || int64(c.Length) > kdf.MaxKeyLen {
		return fmt.Errorf("%w: %d", kdf.ErrInvalidLength, c.Length)
	}
	if c.MemoryBudgetKiB < 0 {
		return fmt.Errorf("memory_budget_kib must not be negative, got %d", c.MemoryBudgetKiB)
	}
	return nil
}
