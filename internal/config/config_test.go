package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(values map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Contains(t, cfg.DSN, "tcp(127.0.0.1:3306)/portfolio")
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, "local", cfg.Uploads.Backend)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes())
	assert.Equal(t, "gpt-3.5-turbo", cfg.AI.Model)
	assert.Equal(t, 300, cfg.AI.MaxTokens)
	assert.Equal(t, 30*time.Second, cfg.AI.Timeout)
	assert.False(t, cfg.MailEnabled())
}

func TestParseAliasesAndSQLite(t *testing.T) {
	cfg, err := Parse([]byte(`
port: 8080
node_env: production
database:
  driver: sqlite3
  path: ":memory:"
redis_url: cache.internal:6380
cors_allowed_origins: ["https://example.com/", " "]
client_url: https://portfolio.example.com
jwtsecret: s3cret
ai:
  provider: claude
  retry_after: 10m
`))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, ":memory:", cfg.DSN)
	assert.Equal(t, "redis://cache.internal:6380", cfg.RedisURL)
	assert.Equal(t, []string{"https://example.com", "https://portfolio.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, "anthropic", cfg.AI.Provider)
	assert.Equal(t, "claude-haiku-4-5-20251001", cfg.AI.Model)
	assert.Equal(t, 10*time.Minute, cfg.AI.RetryAfter)
}

func TestParseRejectsUnknownFieldsAndBadValues(t *testing.T) {
	_, err := Parse([]byte("not_a_field: 1\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("port: 70000\n"))
	assert.ErrorContains(t, err, "invalid port")

	_, err = Parse([]byte("uploads:\n  backend: s3\n"))
	assert.ErrorContains(t, err, "bucket")

	_, err = Parse([]byte("ai:\n  timeout: soon\n"))
	assert.ErrorContains(t, err, "ai.timeout")
}

func TestApplyEnvOverridesFile(t *testing.T) {
	cfg := defaultAppConfig()
	err := ApplyEnv(&cfg, envMap(map[string]string{
		"PORT":               "6000",
		"JWT_SECRET":         "from-env",
		"GMAIL_USER":         "owner@example.com",
		"GMAIL_APP_PASSWORD": "app-pass",
		"OPENAI_API_KEY":     "sk-test",
		"REDIS_URL":          "redis://localhost:6379/2",
		"AI_RETRY_AFTER":     "1h",
	}))
	require.NoError(t, err)
	require.NoError(t, finalize(&cfg))

	assert.Equal(t, 6000, cfg.Port)
	assert.Equal(t, "from-env", cfg.JWTSecret)
	assert.True(t, cfg.MailEnabled())
	assert.Equal(t, "owner@example.com", cfg.Mail.Recipient)
	assert.Equal(t, "owner@example.com", cfg.Mail.From)
	assert.Equal(t, "sk-test", cfg.AI.APIKey)
	assert.Equal(t, "redis://localhost:6379/2", cfg.RedisURL)
	assert.Equal(t, time.Hour, cfg.AI.RetryAfter)
}

func TestApplyEnvPicksProviderKey(t *testing.T) {
	cfg := defaultAppConfig()
	require.NoError(t, ApplyEnv(&cfg, envMap(map[string]string{
		"AI_PROVIDER":       "anthropic",
		"OPENAI_API_KEY":    "sk-openai",
		"ANTHROPIC_API_KEY": "sk-ant",
	})))
	assert.Equal(t, "sk-ant", cfg.AI.APIKey)
}

func TestApplyEnvRejectsMalformedNumbers(t *testing.T) {
	cfg := defaultAppConfig()
	err := ApplyEnv(&cfg, envMap(map[string]string{"PORT": "five"}))
	assert.ErrorContains(t, err, "PORT")
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(filepath.Join(dir, "absent.yml"))
	assert.Error(t, err)

	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("port: 5050\n"), 0o600))
	cfg, err := Load(path)
	require.NoError(t, err)
	if _, set := os.LookupEnv("PORT"); !set {
		assert.Equal(t, 5050, cfg.Port)
	}
}
