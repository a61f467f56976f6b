// Package config loads layered defaults for the compiler CLI: a
// .compilerrc.toml file overridden by command-line flags.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds the settings the CLI's flags can override. Field names match
// the TOML keys and flag names (lowercased, dash-for-underscore) by viper's
// default key-matching behavior.
type Config struct {
	// Verbose enables the analyzer's enter/leave/msg debug trace.
	Verbose bool `mapstructure:"verbose"`

	// Color records the color preference from the file and flags (default
	// true). The diagnostics sink does not read it: its coloring follows TTY
	// detection only.
	Color bool `mapstructure:"color"`

	// IntWidth is the default width, in bits, for the built-in integer
	// type. It is loaded and stored only; no compiler stage reads it.
	IntWidth int `mapstructure:"int_width"`
}

// defaults mirrors the values used when no .compilerrc.toml is present and
// no flags override them.
func defaults() Config {
	return Config{
		Verbose:  false,
		Color:    true,
		IntWidth: 64,
	}
}

// Load reads .compilerrc.toml from the current directory (if present) and
// any directory in searchPaths, then returns the resulting Config together
// with the viper instance it used. Flags are not bound here; a caller that
// wants explicit flags to win applies them to the returned Config.
func Load(searchPaths ...string) (Config, *viper.Viper, error) {
	v := viper.New()
	v.SetConfigName(".compilerrc")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	for _, p := range searchPaths {
		v.AddConfigPath(p)
	}
	v.SetEnvPrefix("COMPILER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cfg := defaults()
	v.SetDefault("verbose", cfg.Verbose)
	v.SetDefault("color", cfg.Color)
	v.SetDefault("int_width", cfg.IntWidth)

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return cfg, v, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, v, err
	}
	return cfg, v, nil
}
