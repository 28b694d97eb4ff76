package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func clearOverrides(t *testing.T) {
	t.Helper()
	for _, key := range []string{"MESSAGE_URL", "REDIS_ADDR", "REDIS_PASSWORD", "PORT"} {
		t.Setenv(key, "")
	}
}

// ==========================
// Defaults
// ==========================

func TestLoadFromFile_Defaults(t *testing.T) {
	clearOverrides(t)
	path := writeConfig(t, "app:\n  name: qa-test\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "qa-test", cfg.App.Name)
	assert.Equal(t, DefaultMessagesURL, cfg.Messages.URL)
	assert.Equal(t, 30*time.Second, GetDuration(cfg.Messages.Timeout))
	assert.Equal(t, 0, cfg.Messages.PageSize)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, "UTC", cfg.Dates.Timezone)
	assert.Equal(t, time.UTC, cfg.Dates.Location())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadFromFile_Values(t *testing.T) {
	clearOverrides(t)
	path := writeConfig(t, `
server:
  port: 9090
messages:
  url: http://localhost:9999/messages
  timeout: 5000
  max_retries: 2
  page_size: 100
cache:
  enabled: true
  ttl: 30000
database:
  redis:
    address: localhost:6379
dates:
  timezone: Europe/London
logging:
  level: debug
  format: console
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "http://localhost:9999/messages", cfg.Messages.URL)
	assert.Equal(t, 5*time.Second, GetDuration(cfg.Messages.Timeout))
	assert.Equal(t, 2, cfg.Messages.MaxRetries)
	assert.Equal(t, 100, cfg.Messages.PageSize)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "localhost:6379", cfg.Database.Redis.Address)
	assert.Equal(t, "Europe/London", cfg.Dates.Location().String())
	assert.Equal(t, "console", cfg.Logging.Format)
}

// ==========================
// Environment overrides
// ==========================

func TestLoadFromFile_MessageURLOverride(t *testing.T) {
	clearOverrides(t)
	t.Setenv("MESSAGE_URL", "http://override/messages")
	path := writeConfig(t, "messages:\n  url: http://from-file/messages\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "http://override/messages", cfg.Messages.URL)
}

func TestLoadFromFile_ExpandsPlaceholders(t *testing.T) {
	clearOverrides(t)
	t.Setenv("QA_TEST_REDIS_PASSWORD", "s3cret")
	path := writeConfig(t, "database:\n  redis:\n    address: localhost:6379\n    password: ${QA_TEST_REDIS_PASSWORD}\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Database.Redis.Password)
}

func TestLoadFromFile_AutomaticEnv(t *testing.T) {
	clearOverrides(t)
	t.Setenv("LOGGING_LEVEL", "warn")
	path := writeConfig(t, "logging:\n  level: debug\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

// ==========================
// Validation
// ==========================

func TestLoadFromFile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"cache without redis", "cache:\n  enabled: true\n", "database.redis.address"},
		{"bad timezone", "dates:\n  timezone: Mars/Olympus\n", "dates.timezone"},
		{"bad port", "server:\n  port: 70000\n", "server.port"},
		{"negative page size", "messages:\n  page_size: -1\n", "page_size"},
		{"bad url", "messages:\n  url: not-a-url\n", "messages.url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearOverrides(t)
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
