// Package config loads the stacked CLI configuration file.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/stacked/errors"
)

// Memory backend names.
const (
	MemoryCells  = "cells"
	MemoryLinear = "linear"
)

// Config is the contents of a stacked.toml file.
type Config struct {
	Memory    string `toml:"memory"`
	Log       Log    `toml:"log"`
	DumpCells uint32 `toml:"dump_cells"`
	Debug     bool   `toml:"debug"`
}

// Log configures the CLI logger.
type Log struct {
	Level string `toml:"level"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Memory:    MemoryCells,
		DumpCells: 30,
		Log:       Log{Level: "info"},
	}
}

// Load reads and validates the file at path. Keys missing from the file
// keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "cannot read "+path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML data over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "parse error")
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Value(keys).
			Detail("unknown keys: %s", strings.Join(keys, ", ")).
			Build()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	switch c.Memory {
	case MemoryCells, MemoryLinear:
	default:
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Path("memory").
			Value(c.Memory).
			Detail("unknown memory backend %q (want %s or %s)", c.Memory, MemoryCells, MemoryLinear).
			Build()
	}

	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// LogLevel returns the configured level, forced to debug when Debug is set.
func (c *Config) LogLevel() (zapcore.Level, error) {
	if c.Debug {
		return zapcore.DebugLevel, nil
	}
	if c.Log.Level == "" {
		return zapcore.InfoLevel, nil
	}
	lvl, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return lvl, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Path("log", "level").
			Value(c.Log.Level).
			Cause(err).
			Detail("invalid log level").
			Build()
	}
	return lvl, nil
}
