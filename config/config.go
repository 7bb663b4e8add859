package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment overrides, e.g. RUSTMAPS_API_KEY.
const EnvPrefix = "RUSTMAPS"

// Load loads the configuration from file and environment. A missing config
// file is not an error; the API key may come from the environment or a
// .env file in the working directory.
func Load(configPath string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".rustmaps"))
		}
		v.AddConfigPath("/etc/rustmaps/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// API defaults; the key has no default but is registered so the
	// environment can supply it.
	v.SetDefault("api.key", "")
	v.SetDefault("api.base_url", "https://api.rustmaps.com/v4")
	v.SetDefault("api.timeout", "30s")
	v.SetDefault("api.staging", false)

	v.SetDefault("batch.concurrency", 4)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.API.Key == "" || cfg.API.Key == "your-api-key-here" {
		return fmt.Errorf("api.key must be set (or %s_API_KEY)", EnvPrefix)
	}

	if cfg.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}

	if cfg.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative")
	}

	if cfg.Batch.Concurrency < 1 {
		return fmt.Errorf("batch.concurrency must be at least 1, got %d", cfg.Batch.Concurrency)
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
