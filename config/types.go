package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Batch   BatchConfig   `mapstructure:"batch"`
	Filter  FilterConfig  `mapstructure:"filter"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig holds RustMaps API connection details
type APIConfig struct {
	Key     string        `mapstructure:"key"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Staging bool          `mapstructure:"staging"`
}

// BatchConfig controls concurrent seed/size lookups
type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// FilterConfig contains named filter expressions
type FilterConfig struct {
	Presets map[string]string `mapstructure:"presets"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
