package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinywideclouds/go-push-gateway/pushgateway/config"
	"gopkg.in/yaml.v3"
)

func TestNewConfigFromYaml(t *testing.T) {
	logger := newTestLogger()

	t.Run("Maps all fields", func(t *testing.T) {
		raw := []byte(`
project_id: "my-project"
listen_addr: ":3000"
credentials_file: "/secrets/firebase.json"
android_channel_id: "alerts_v1"
cors_allowed_origins:
  - "https://app.example.com"
redis:
  enabled: true
  addr: "localhost:6379"
  db: 2
verify_timeout: "5s"
send_timeout: "20s"
auth_cache_ttl: "2m"
`)
		var yamlCfg config.YamlConfig
		require.NoError(t, yaml.Unmarshal(raw, &yamlCfg))

		cfg, err := config.NewConfigFromYaml(&yamlCfg, logger)
		require.NoError(t, err)

		assert.Equal(t, "my-project", cfg.ProjectID)
		assert.Equal(t, ":3000", cfg.ListenAddr)
		assert.Equal(t, "/secrets/firebase.json", cfg.CredentialsFile)
		assert.Equal(t, "alerts_v1", cfg.AndroidChannelID)
		assert.Equal(t, []string{"https://app.example.com"}, cfg.AllowedOrigins)
		assert.True(t, cfg.Redis.Enabled)
		assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
		assert.Equal(t, 2, cfg.Redis.DB)
		assert.Equal(t, 5*time.Second, cfg.VerifyTimeout)
		assert.Equal(t, 20*time.Second, cfg.SendTimeout)
		assert.Equal(t, 2*time.Minute, cfg.AuthCacheTTL)
	})

	t.Run("Empty durations stay zero for later defaulting", func(t *testing.T) {
		cfg, err := config.NewConfigFromYaml(&config.YamlConfig{ProjectID: "p"}, logger)
		require.NoError(t, err)
		assert.Zero(t, cfg.VerifyTimeout)
		assert.Zero(t, cfg.SendTimeout)
	})

	t.Run("Bad duration is rejected", func(t *testing.T) {
		_, err := config.NewConfigFromYaml(&config.YamlConfig{ProjectID: "p", SendTimeout: "soon"}, logger)
		assert.Error(t, err)
	})
}
