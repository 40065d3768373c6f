package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

// Config defines the *single*, authoritative configuration.
type Config struct {
	ProjectID        string
	ListenAddr       string
	CredentialsFile  string
	AndroidChannelID string
	AllowedOrigins   []string

	Redis RedisConfig

	VerifyTimeout time.Duration
	SendTimeout   time.Duration
	AuthCacheTTL  time.Duration
}

// UpdateConfigWithEnvOverrides applies environment variables and final validation.
func UpdateConfigWithEnvOverrides(cfg *Config, logger *slog.Logger) (*Config, error) {
	logger.Debug("Applying environment variable overrides...")

	if val := os.Getenv("PROJECT_ID"); val != "" {
		logger.Debug("Overriding config value", "key", "PROJECT_ID", "source", "env")
		cfg.ProjectID = val
	}
	if val := os.Getenv("PORT"); val != "" {
		logger.Debug("Overriding config value", "key", "PORT", "source", "env")
		cfg.ListenAddr = ":" + val
	}
	if val := os.Getenv("FIREBASE_CREDENTIALS_FILE"); val != "" {
		logger.Debug("Overriding config value", "key", "FIREBASE_CREDENTIALS_FILE", "source", "env")
		cfg.CredentialsFile = val
	}
	if val := os.Getenv("ANDROID_CHANNEL_ID"); val != "" {
		logger.Debug("Overriding config value", "key", "ANDROID_CHANNEL_ID", "source", "env")
		cfg.AndroidChannelID = val
	}

	// Redis overrides
	if val := os.Getenv("REDIS_ADDR"); val != "" {
		cfg.Redis.Addr = val
		cfg.Redis.Enabled = true
	}
	if val := os.Getenv("REDIS_PASSWORD"); val != "" {
		cfg.Redis.Password = val
	}
	if val := os.Getenv("REDIS_DB"); val != "" {
		if db, err := strconv.Atoi(val); err == nil {
			cfg.Redis.DB = db
		}
	}
	if val := os.Getenv("REDIS_ENABLED"); val != "" {
		enabled, _ := strconv.ParseBool(val)
		cfg.Redis.Enabled = enabled
	}

	// Timeout overrides
	if val := os.Getenv("VERIFY_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil && d > 0 {
			logger.Debug("Overriding config value", "key", "VERIFY_TIMEOUT", "source", "env")
			cfg.VerifyTimeout = d
		}
	}
	if val := os.Getenv("SEND_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil && d > 0 {
			logger.Debug("Overriding config value", "key", "SEND_TIMEOUT", "source", "env")
			cfg.SendTimeout = d
		}
	}
	if val := os.Getenv("AUTH_CACHE_TTL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil && d > 0 {
			logger.Debug("Overriding config value", "key", "AUTH_CACHE_TTL", "source", "env")
			cfg.AuthCacheTTL = d
		}
	}

	// CORS overrides
	if corsOrigins := os.Getenv("CORS_ALLOWED_ORIGINS"); corsOrigins != "" {
		logger.Debug("Overriding config value", "key", "CORS_ALLOWED_ORIGINS", "source", "env")
		rawOrigins := strings.Split(corsOrigins, ",")
		var cleanOrigins []string
		for _, o := range rawOrigins {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				cleanOrigins = append(cleanOrigins, trimmed)
			}
		}
		cfg.AllowedOrigins = cleanOrigins
	}

	// Final validation and defaults
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("project_id is required (set via YAML or PROJECT_ID env var)")
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":3000"
	}
	if cfg.VerifyTimeout <= 0 {
		cfg.VerifyTimeout = 10 * time.Second
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 30 * time.Second
	}
	if cfg.AuthCacheTTL <= 0 {
		cfg.AuthCacheTTL = 5 * time.Minute
	}

	logger.Debug("Configuration finalized and validated successfully")
	return cfg, nil
}
