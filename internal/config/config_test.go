package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.DevMode)
	assert.Equal(t, 1000000, cfg.MaxSimulations)
	assert.Equal(t, 10000, cfg.DefaultSimulations)
	assert.Equal(t, 252, cfg.DefaultTimeHorizon)
	assert.Equal(t, 10, cfg.ShutdownTimeoutSecs)
	assert.Equal(t, 60, cfg.RequestTimeoutSeconds)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("RISK_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DEV_MODE", "true")
	t.Setenv("RISK_MAX_SIMULATIONS", "50000")
	t.Setenv("RISK_DEFAULT_SIMULATIONS", "5000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.DevMode)
	assert.Equal(t, 50000, cfg.MaxSimulations)
	assert.Equal(t, 5000, cfg.DefaultSimulations)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("RISK_PORT", "not-a-number")
	t.Setenv("DEV_MODE", "not-a-bool")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Port)
	assert.False(t, cfg.DevMode)
}

func TestConfig_Validate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Port:                  8000,
			LogLevel:              "info",
			MaxSimulations:        1000000,
			DefaultSimulations:    10000,
			DefaultTimeHorizon:    252,
			ShutdownTimeoutSecs:   10,
			RequestTimeoutSeconds: 60,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "port zero", mutate: func(c *Config) { c.Port = 0 }, wantErr: true},
		{name: "port too large", mutate: func(c *Config) { c.Port = 70000 }, wantErr: true},
		{name: "max simulations zero", mutate: func(c *Config) { c.MaxSimulations = 0 }, wantErr: true},
		{name: "default exceeds max", mutate: func(c *Config) { c.DefaultSimulations = c.MaxSimulations + 1 }, wantErr: true},
		{name: "horizon zero", mutate: func(c *Config) { c.DefaultTimeHorizon = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
