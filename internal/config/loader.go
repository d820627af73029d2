package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader handles configuration loading.
type Loader struct {
	configPath string
}

// NewLoader creates a new config loader. An empty path falls back to
// $HOME/.planweave/planweave.json.
func NewLoader(configPath string) *Loader {
	return &Loader{configPath: configPath}
}

// Load reads the configuration file, layering environment overrides
// (PLANWEAVE_*) over file values over defaults. A missing file yields
// defaults.
func (l *Loader) Load() (*Config, error) {
	configPath := l.configPath
	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = filepath.Join(home, ".planweave", "planweave.json")
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("json")

	v.SetEnvPrefix("PLANWEAVE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultConfig()
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.console", defaults.Logging.Console)
	v.SetDefault("logging.pretty", defaults.Logging.Pretty)
	v.SetDefault("executor.max_concurrency", defaults.Executor.MaxConcurrency)
	v.SetDefault("executor.default_timeout_ms", defaults.Executor.DefaultTimeoutMS)
	v.SetDefault("executor.max_retries", defaults.Executor.MaxRetries)
	v.SetDefault("executor.backoff_base_ms", defaults.Executor.BackoffBaseMS)
	v.SetDefault("executor.backoff_cap_ms", defaults.Executor.BackoffCapMS)
	v.SetDefault("validation.mode", defaults.Validation.Mode)
	v.SetDefault("output.condensed_limit", defaults.Output.CondensedLimit)

	if _, err := os.Stat(configPath); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configPath, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to stat config %s: %w", configPath, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
