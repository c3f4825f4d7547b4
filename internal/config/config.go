package config

import (
	"os"
	"strconv"

	"datakiln/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server ServerConfig
	Engine EngineConfig
	Upload UploadConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// EngineConfig holds tunables for the analysis engine
type EngineConfig struct {
	// OneHotMaxCategories caps how many distinct values a column may have
	// before one-hot encoding is skipped.
	OneHotMaxCategories int
	// GroupMeanLimit caps how many groups a grouped-mean aggregation returns.
	GroupMeanLimit int
}

// UploadConfig holds file upload settings
type UploadConfig struct {
	MaxUploadMB int64
	TempDir     string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Engine: EngineConfig{
			OneHotMaxCategories: getEnvIntOrDefault("ONE_HOT_MAX_CATEGORIES", 50),
			GroupMeanLimit:      getEnvIntOrDefault("GROUP_MEAN_LIMIT", 15),
		},
		Upload: UploadConfig{
			MaxUploadMB: int64(getEnvIntOrDefault("MAX_UPLOAD_MB", 32)),
			TempDir:     getEnvOrDefault("UPLOAD_TEMP_DIR", os.TempDir()),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if config.Engine.OneHotMaxCategories < 1 {
		return errors.ConfigInvalid("ONE_HOT_MAX_CATEGORIES must be at least 1")
	}
	if config.Engine.GroupMeanLimit < 1 {
		return errors.ConfigInvalid("GROUP_MEAN_LIMIT must be at least 1")
	}
	if config.Upload.MaxUploadMB < 1 {
		return errors.ConfigInvalid("MAX_UPLOAD_MB must be at least 1")
	}
	return nil
}

// Helper functions for environment variable parsing

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
