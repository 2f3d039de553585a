// Package conf loads isakit configuration using Viper.
//
// Configuration sources, in precedence order: environment variables with the
// ISAKIT prefix, a project-local isakit.toml found by walking up from the
// working directory, ~/.isakit/isakit.toml, and built-in defaults.
package conf

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/openisa/isakit/errors"
)

// Config holds all isakit settings.
type Config struct {
	Schema   SchemaConfig   `mapstructure:"schema"`
	Log      LogConfig      `mapstructure:"log"`
	Validate ValidateConfig `mapstructure:"validate"`
	Watch    WatchConfig    `mapstructure:"watch"`
}

// SchemaConfig controls where the investigation schema comes from.
type SchemaConfig struct {
	// Path overrides the embedded investigation schema when non-empty.
	Path string `mapstructure:"path"`
}

// LogConfig controls logger initialization.
type LogConfig struct {
	JSON      bool `mapstructure:"json"`
	Verbosity int  `mapstructure:"verbosity"`
}

// ValidateConfig toggles individual validation checks.
type ValidateConfig struct {
	// CheckDataFiles enables the on-disk presence check for assay data files.
	CheckDataFiles bool `mapstructure:"check_data_files"`
}

// WatchConfig controls validate --watch behaviour.
type WatchConfig struct {
	DebounceMS int `mapstructure:"debounce_ms"`
}

var globalConfig *Config

// Load reads the isakit configuration, caching the result.
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	v := initViper()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	globalConfig = &config
	return globalConfig, nil
}

// LoadFromFile loads configuration from a specific file path, bypassing the
// cache and the search path.
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal config from %s", configPath)
	}
	return &config, nil
}

// Reset clears the cached configuration (useful for testing).
func Reset() {
	globalConfig = nil
}

// SetDefaults configures default values for all configuration options.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("schema.path", "")
	v.SetDefault("log.json", false)
	v.SetDefault("log.verbosity", 0)
	v.SetDefault("validate.check_data_files", false)
	v.SetDefault("watch.debounce_ms", 250)
}

func initViper() *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix("ISAKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	// Project config wins over the user-level one.
	if userPath := userConfigPath(); userPath != "" {
		v.SetConfigFile(userPath)
		_ = v.MergeInConfig()
	}
	if projectPath := findProjectConfig(); projectPath != "" {
		v.SetConfigFile(projectPath)
		_ = v.MergeInConfig()
	}

	return v
}

// findProjectConfig searches for isakit.toml by walking up the directory
// tree. Returns the first config file found, or empty string if none found.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		path := filepath.Join(dir, "isakit.toml")
		if _, err := os.Stat(path); err == nil {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(home, ".isakit", "isakit.toml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
