package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeConfigDefaults(t *testing.T) {
	// Run from an empty directory so no stray config file is picked up.
	t.Chdir(t.TempDir())

	cfg, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.False(t, cfg.Model.Enabled)
	assert.Equal(t, "gemini-2.0-flash", cfg.Model.Name)
	assert.Equal(t, 10, cfg.Model.TimeoutSeconds)
	assert.Equal(t, "treasury_receipt", cfg.Pipeline.DocumentKind)
	assert.Equal(t, 4, cfg.Pipeline.GroupKeyWidth)
	assert.Equal(t, 1, cfg.Pipeline.Workers)
	assert.Equal(t, "rules.yaml", cfg.Files.Rules)
	assert.Equal(t, "coa", cfg.Files.COADir)
}

func TestInitializeConfigEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TREASURY_LOG_LEVEL", "debug")
	t.Setenv("TREASURY_PIPELINE_DOCUMENT_KIND", "payment_voucher")
	t.Setenv("GEMINI_API_KEY", "test-key-123")

	cfg, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "payment_voucher", cfg.Pipeline.DocumentKind)
	assert.Equal(t, "test-key-123", cfg.Model.APIKey)
}

func TestInitializeConfigRejectsInvalidEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TREASURY_LOG_LEVEL", "verbose")

	_, err := InitializeConfig()
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		cfg.Log.Level = "info"
		cfg.Pipeline.DocumentKind = "treasury_receipt"
		cfg.Pipeline.GroupKeyWidth = 4
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(*Config) {}, false},
		{"debug level accepted", func(c *Config) { c.Log.Level = "debug" }, false},
		{"invalid log level", func(c *Config) { c.Log.Level = "verbose" }, true},
		{"invalid document kind", func(c *Config) { c.Pipeline.DocumentKind = "invoice" }, true},
		{"key width too small", func(c *Config) { c.Pipeline.GroupKeyWidth = 0 }, true},
		{"key width too large", func(c *Config) { c.Pipeline.GroupKeyWidth = 7 }, true},
		{"full key width accepted", func(c *Config) { c.Pipeline.GroupKeyWidth = 6 }, false},
		{"model enabled needs timeout", func(c *Config) {
			c.Model.Enabled = true
			c.Model.TimeoutSeconds = 0
		}, true},
		{"model enabled with timeout", func(c *Config) {
			c.Model.Enabled = true
			c.Model.TimeoutSeconds = 15
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := validateConfig(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
