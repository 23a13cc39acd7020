// Package config loads application configuration from the environment, with
// optional .env files for local development.
package config

import (
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Load reads configuration from the environment. Each provided path is tried
// as a dotenv file; a missing file is logged and skipped, so production can
// run on plain environment variables.
func Load(envFilePath ...string) (*App, error) {
	logger := slog.Default()
	if len(envFilePath) == 0 {
		envFilePath = []string{".env"}
	}
	for _, path := range envFilePath {
		if err := godotenv.Load(path); err != nil {
			logger.Warn("env file not found, using system environment", "path", path)
		} else {
			logger.Info("environment loaded from file", "path", path)
		}
	}
	return loadFromEnv()
}

func loadFromEnv() (*App, error) {
	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	slog.Default().Info("app config loaded",
		"env", cfg.Env,
		"db", maskValue(cfg.DB.Url),
		"rate_limit_max_requests", cfg.RateLimit.MaxRequests,
		"rate_limit_window", cfg.RateLimit.Window,
		"processor_max_retries", cfg.Processor.MaxRetries,
		"broadcast_buffer_size", cfg.Broadcast.BufferSize,
		"broadcast_overflow_policy", cfg.Broadcast.OverflowPolicy,
	)
	return &cfg, nil
}

func maskValue(key string) string {
	if len(key) <= 6 {
		return "****"
	}
	return key[:2] + "****" + key[len(key)-4:]
}
