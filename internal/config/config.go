// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port                  int
	LogLevel              string
	DevMode               bool
	MaxSimulations        int // Upper bound on num_simulations accepted per request
	DefaultSimulations    int // Used when a request omits num_simulations
	DefaultTimeHorizon    int // Used when a request omits time_horizon
	ShutdownTimeoutSecs   int
	RequestTimeoutSeconds int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:                  getEnvAsInt("RISK_PORT", 8000),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		DevMode:               getEnvAsBool("DEV_MODE", false),
		MaxSimulations:        getEnvAsInt("RISK_MAX_SIMULATIONS", 1000000),
		DefaultSimulations:    getEnvAsInt("RISK_DEFAULT_SIMULATIONS", 10000),
		DefaultTimeHorizon:    getEnvAsInt("RISK_DEFAULT_TIME_HORIZON", 252),
		ShutdownTimeoutSecs:   getEnvAsInt("RISK_SHUTDOWN_TIMEOUT", 10),
		RequestTimeoutSeconds: getEnvAsInt("RISK_REQUEST_TIMEOUT", 60),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is usable
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.MaxSimulations <= 0 {
		return fmt.Errorf("invalid max simulations: %d", c.MaxSimulations)
	}
	if c.DefaultSimulations <= 0 || c.DefaultSimulations > c.MaxSimulations {
		return fmt.Errorf("invalid default simulations: %d (max %d)", c.DefaultSimulations, c.MaxSimulations)
	}
	if c.DefaultTimeHorizon <= 0 {
		return fmt.Errorf("invalid default time horizon: %d", c.DefaultTimeHorizon)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
