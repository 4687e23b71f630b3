package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"DATABASE_URL", "REDIS_ADDR", "REDIS_PASSWORD", "GEMINI_API_KEY", "EVENTHUB_PORT", "GIN_MODE", "EVENTHUB_API_URL"} {
		t.Setenv(k, "")
	}
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(viper.New(), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.Equal(t, 1500*time.Millisecond, cfg.Engine.BotDelay)
	assert.Equal(t, 10*time.Minute, cfg.Redis.TTL)
	assert.Empty(t, cfg.Redis.Address)
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	yaml := []byte(`
server:
  port: 9000
  mode: release
postgres:
  dsn: postgres://file/eventhub
redis:
  address: localhost:6380
  ttl: 30s
scoring:
  first_response_bonus: 50
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))

	t.Setenv("DATABASE_URL", "postgres://env/eventhub")
	t.Setenv("EVENTHUB_PORT", "9100")
	t.Setenv("GEMINI_API_KEY", "secret")

	cfg, err := Load(viper.New(), dir)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "postgres://env/eventhub", cfg.Postgres.DSN)
	assert.Equal(t, "localhost:6380", cfg.Redis.Address)
	assert.Equal(t, 30*time.Second, cfg.Redis.TTL)
	assert.Equal(t, 50, cfg.Scoring.FirstResponseBonus)
	assert.Equal(t, "secret", cfg.Gemini.APIKey)
}

func TestLoad_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [unclosed"), 0o600))

	_, err := Load(viper.New(), dir)
	assert.Error(t, err)
}
