package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeDefaultsRunMode(t *testing.T) {
	cfg := &Config{Telegram: TelegramConfig{Token: "123:abc", RunMode: "Polling"}}
	require.NoError(t, Normalize(cfg))
	require.Equal(t, RunModeLongpoll, cfg.Telegram.RunMode)
}

func TestNormalizeRejectsMissingToken(t *testing.T) {
	err := Normalize(&Config{})
	require.ErrorContains(t, err, "token")
}

func TestNormalizeWebhookRequiresURL(t *testing.T) {
	cfg := &Config{Telegram: TelegramConfig{Token: "t", RunMode: "webhook"}}
	require.ErrorContains(t, Normalize(cfg), "webhook.url")
}

func TestNormalizeRateLimitExclusions(t *testing.T) {
	cfg := &Config{
		Telegram:  TelegramConfig{Token: "t"},
		RateLimit: RateLimitConfig{ExcludeUpdates: []string{" Callback ", ""}},
	}
	require.NoError(t, Normalize(cfg))
	require.Equal(t, UpdateCallback, cfg.RateLimit.ExcludeUpdates[0])

	cfg.RateLimit.ExcludeUpdates = []string{"inline_query"}
	require.Error(t, Normalize(cfg))
}

func TestLoadIntoAppliesEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	yml := "telegram:\n  token: from-file\n  run_mode: longpoll\nlogging:\n  level: info\n"
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	t.Setenv("BOT_TOKEN", "from-env")

	var cfg Config
	require.NoError(t, LoadInto(path, &cfg))
	require.Equal(t, "from-env", cfg.Telegram.Token)
	require.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadIntoMissingFile(t *testing.T) {
	var cfg Config
	err := LoadInto(filepath.Join(t.TempDir(), "absent.yml"), &cfg)
	require.ErrorContains(t, err, "read config file")
}
