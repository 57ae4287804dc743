// Package cliconfig loads clausewitz CLI configuration: named filter
// presets a user keeps in a project config file instead of retyping a
// filter on the command line every invocation.
package cliconfig

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/viper"
)

// Config is the clausewitz CLI's on-disk configuration.
type Config struct {
	// FilterPresets maps a short name to a raw JSON filter document, the
	// same wire format clausewitz.Filter's UnmarshalJSON accepts. Each
	// preset must be written as a JSON string in clausewitz.yml (e.g.
	// `foo: '{"bar": true}'`), not as a native YAML mapping: viper
	// decodes each preset value as a scalar and hands it to
	// json.RawMessage verbatim, so a YAML map under a preset key won't
	// populate it.
	FilterPresets map[string]json.RawMessage `mapstructure:"filter_presets"`
}

// Load reads clausewitz.yml/.yaml from the current directory, falling
// back to defaults (no presets) if none exists.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("clausewitz")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// PresetNames returns the configured preset names, for prompting.
func (c *Config) PresetNames() []string {
	names := make([]string, 0, len(c.FilterPresets))
	for name := range c.FilterPresets {
		names = append(names, name)
	}
	return names
}
