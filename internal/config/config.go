// Copyright 2026 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

// Package config loads the sqlbind command configuration.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Defaults.
const (
	DefaultDriver = "sqlite"
	DefaultDSN    = ":memory:"
	DefaultOutput = OutputTable
	DefaultFile   = "sqlbind.yaml"
	EnvPrefix     = "SQLBIND_"
)

// Output formats.
const (
	OutputTable = "table"
	OutputJSON  = "json"
)

// Config holds the settings of the sqlbind command.
type Config struct {
	Driver  string `koanf:"driver"`
	DSN     string `koanf:"dsn"`
	Output  string `koanf:"output"`
	Verbose bool   `koanf:"verbose"`
	// Args is the default argument file.
	Args string `koanf:"args"`
	// File is the configuration file that was read, if any.
	File string `koanf:"-"`
}

// Validate checks the settings that cannot be checked by the flag parser.
func (c *Config) Validate() error {
	if c.Driver == "" {
		return fmt.Errorf("driver is required")
	}
	switch c.Output {
	case OutputTable, OutputJSON:
	default:
		return fmt.Errorf("unknown output format %q, expected %s or %s", c.Output, OutputTable, OutputJSON)
	}
	return nil
}

// Load reads the configuration. Precedence from highest to lowest is flags
// that were set, environment variables with the SQLBIND_ prefix, the
// configuration file, then defaults. If cfgFile is empty sqlbind.yaml in
// the current directory is read when it exists.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"driver":  DefaultDriver,
		"dsn":     DefaultDSN,
		"output":  DefaultOutput,
		"verbose": false,
		"args":    "",
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	used := cfgFile
	if used == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			used = DefaultFile
		}
	}
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// SQLBIND_DSN -> dsn
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = used
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
