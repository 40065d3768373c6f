package config

import (
	"fmt"
	"log/slog"
	"time"
)

type YamlRedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Enabled  bool   `yaml:"enabled"`
}

// YamlConfig is the structure that mirrors the raw config.yaml file.
// Durations are plain strings ("10s", "5m") parsed during mapping.
type YamlConfig struct {
	ProjectID        string          `yaml:"project_id"`
	ListenAddr       string          `yaml:"listen_addr"`
	CredentialsFile  string          `yaml:"credentials_file"`
	AndroidChannelID string          `yaml:"android_channel_id"`
	AllowedOrigins   []string        `yaml:"cors_allowed_origins"`
	RedisConfig      YamlRedisConfig `yaml:"redis"`
	VerifyTimeout    string          `yaml:"verify_timeout"`
	SendTimeout      string          `yaml:"send_timeout"`
	AuthCacheTTL     string          `yaml:"auth_cache_ttl"`
}

// NewConfigFromYaml converts the YamlConfig into a clean, base Config struct.
func NewConfigFromYaml(baseCfg *YamlConfig, logger *slog.Logger) (*Config, error) {
	logger.Debug("Mapping YAML config to base config struct")

	cfg := &Config{
		ProjectID:        baseCfg.ProjectID,
		ListenAddr:       baseCfg.ListenAddr,
		CredentialsFile:  baseCfg.CredentialsFile,
		AndroidChannelID: baseCfg.AndroidChannelID,
		AllowedOrigins:   baseCfg.AllowedOrigins,
		Redis: RedisConfig{
			Addr:     baseCfg.RedisConfig.Addr,
			Password: baseCfg.RedisConfig.Password,
			DB:       baseCfg.RedisConfig.DB,
			Enabled:  baseCfg.RedisConfig.Enabled,
		},
	}

	var err error
	if cfg.VerifyTimeout, err = parseDuration(baseCfg.VerifyTimeout, "verify_timeout"); err != nil {
		return nil, err
	}
	if cfg.SendTimeout, err = parseDuration(baseCfg.SendTimeout, "send_timeout"); err != nil {
		return nil, err
	}
	if cfg.AuthCacheTTL, err = parseDuration(baseCfg.AuthCacheTTL, "auth_cache_ttl"); err != nil {
		return nil, err
	}

	logger.Debug("YAML config mapping complete",
		"project_id", cfg.ProjectID,
		"listen_addr", cfg.ListenAddr,
	)

	return cfg, nil
}

func parseDuration(raw, key string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}
