// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Model struct {
		Enabled        bool   `mapstructure:"enabled" yaml:"enabled"`
		Name           string `mapstructure:"name" yaml:"name"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		APIKey         string `mapstructure:"api_key" yaml:"-"` // Never serialize API key
	} `mapstructure:"model" yaml:"model"`

	Pipeline struct {
		DocumentKind  string `mapstructure:"document_kind" yaml:"document_kind"`
		GroupKeyWidth int    `mapstructure:"group_key_width" yaml:"group_key_width"`
		Workers       int    `mapstructure:"workers" yaml:"workers"`
	} `mapstructure:"pipeline" yaml:"pipeline"`

	Files struct {
		ConfigDir        string `mapstructure:"config_dir" yaml:"config_dir"`
		Rules            string `mapstructure:"rules" yaml:"rules"`
		ApprovalPolicy   string `mapstructure:"approval_policy" yaml:"approval_policy"`
		ValidationPolicy string `mapstructure:"validation_policy" yaml:"validation_policy"`
		COADir           string `mapstructure:"coa_dir" yaml:"coa_dir"`
	} `mapstructure:"files" yaml:"files"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.treasury-docs")
	v.AddConfigPath(".treasury-docs")
	v.AddConfigPath(".")

	// 3. Environment variables
	v.SetEnvPrefix("TREASURY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Log the error but don't fail - continue with defaults and env vars
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	// 5. The API key always comes from the environment, not prefixed
	if err := v.BindEnv("model.api_key", "GEMINI_API_KEY"); err != nil {
		fmt.Printf("Warning: failed to bind GEMINI_API_KEY environment variable: %v\n", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 6. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Model defaults
	v.SetDefault("model.enabled", false)
	v.SetDefault("model.name", "gemini-2.0-flash")
	v.SetDefault("model.timeout_seconds", 10)

	// Pipeline defaults
	v.SetDefault("pipeline.document_kind", "treasury_receipt")
	v.SetDefault("pipeline.group_key_width", 4)
	v.SetDefault("pipeline.workers", 1)

	// File defaults
	v.SetDefault("files.config_dir", "")
	v.SetDefault("files.rules", "rules.yaml")
	v.SetDefault("files.approval_policy", "approval.yaml")
	v.SetDefault("files.validation_policy", "validation.yaml")
	v.SetDefault("files.coa_dir", "coa")
}

// validateConfig performs shape checks that would otherwise surface as
// confusing errors deep inside the pipeline
func validateConfig(config *Config) error {
	switch config.Log.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	switch config.Pipeline.DocumentKind {
	case "treasury_receipt", "payment_voucher":
	default:
		return fmt.Errorf("invalid document kind: %s", config.Pipeline.DocumentKind)
	}

	if config.Pipeline.GroupKeyWidth < 1 || config.Pipeline.GroupKeyWidth > 6 {
		return fmt.Errorf("group key width %d outside 1..6", config.Pipeline.GroupKeyWidth)
	}

	if config.Model.Enabled && config.Model.TimeoutSeconds <= 0 {
		return fmt.Errorf("model timeout must be positive when the model is enabled")
	}

	return nil
}
