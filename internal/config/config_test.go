package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"ADAUDIT_GATEWAY_PORT", "ADAUDIT_GATEWAY_BIND", "ADAUDIT_LOG_LEVEL", "ADAUDIT_SESSION_STORE",
		"ADAUDIT_TELEGRAM_TOKEN", "TELEGRAM_BOT_TOKEN",
		"ADAUDIT_WEBHOOK_SECRET", "WEBHOOK_SECRET",
		"ADAUDIT_ALLOWED_USER_IDS", "ALLOWED_USER_IDS",
	} {
		t.Setenv(name, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, 3000, cfg.Gateway.Port)
	assert.Equal(t, "loopback", cfg.Gateway.Bind)
	assert.Equal(t, 20.0, cfg.Gateway.RateLimit.PerSecond)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "memory", cfg.Session.Store)
	assert.Equal(t, 6*time.Hour, cfg.Session.TTL())
	assert.Equal(t, 10*time.Minute, cfg.Session.SweepInterval())
	assert.Equal(t, "sessao:", cfg.Session.KeyPrefix)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Nil(t, cfg.Channels.Telegram)
	assert.Nil(t, cfg.Channels.IRC)
}

func TestGatewayAddr(t *testing.T) {
	assert.Equal(t, "127.0.0.1:3000", GatewayConfig{Port: 3000, Bind: "loopback"}.Addr())
	assert.Equal(t, "0.0.0.0:8080", GatewayConfig{Port: 8080, Bind: "lan"}.Addr())
	assert.Equal(t, "10.0.0.5:80", GatewayConfig{Port: 80, Bind: "custom", CustomBindHost: "10.0.0.5"}.Addr())
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("/nonexistent/path/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoadValidYAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
gateway:
  port: 9999
  bind: lan
  rateLimit:
    perSecond: 5
    burst: 10
channels:
  telegram:
    token: "123:abc"
    webhookSecret: s3cret
  irc:
    server: irc.libera.chat
    port: 6697
    nick: adaudit
    useTLS: true
access:
  allowedUserIds: ["100", "200"]
session:
  store: sqlite
  ttlHours: 12
logging:
  level: debug
  consoleStyle: json
metrics:
  enabled: false
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Gateway.Port)
	assert.Equal(t, "lan", cfg.Gateway.Bind)
	assert.Equal(t, 5.0, cfg.Gateway.RateLimit.PerSecond)
	assert.Equal(t, 10, cfg.Gateway.RateLimit.Burst)

	require.NotNil(t, cfg.Channels.Telegram)
	assert.Equal(t, "123:abc", cfg.Channels.Telegram.Token)
	assert.Equal(t, "s3cret", cfg.Channels.Telegram.WebhookSecret)

	require.NotNil(t, cfg.Channels.IRC)
	assert.Equal(t, "irc.libera.chat", cfg.Channels.IRC.Server)
	assert.True(t, cfg.Channels.IRC.UseTLS)

	assert.Equal(t, []string{"100", "200"}, cfg.Access.AllowedUserIDs)
	assert.Equal(t, "sqlite", cfg.Session.Store)
	assert.Equal(t, 12, cfg.Session.TTLHours)
	assert.Equal(t, 10000, cfg.Session.MaxEntries, "untouched fields keep defaults")
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "{{invalid yaml")

	_, err := Load(path)
	require.Error(t, err)
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ADAUDIT_GATEWAY_PORT", "12345")
	t.Setenv("ADAUDIT_LOG_LEVEL", "TRACE")
	t.Setenv("ADAUDIT_SESSION_STORE", "SQLite")

	cfg, err := Load("/nonexistent/config.yaml")
	require.NoError(t, err)

	assert.Equal(t, 12345, cfg.Gateway.Port)
	assert.Equal(t, "trace", cfg.Logging.Level)
	assert.Equal(t, "sqlite", cfg.Session.Store)
}

func TestLoadBotEnvVariables(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "42:xyz")
	t.Setenv("WEBHOOK_SECRET", "hook")
	t.Setenv("ALLOWED_USER_IDS", " 1, 2 ,,3")

	cfg, err := Load("/nonexistent/config.yaml")
	require.NoError(t, err)

	require.NotNil(t, cfg.Channels.Telegram, "token in env enables telegram")
	assert.Equal(t, "42:xyz", cfg.Channels.Telegram.Token)
	assert.Equal(t, "hook", cfg.Channels.Telegram.WebhookSecret)
	assert.Equal(t, []string{"1", "2", "3"}, cfg.Access.AllowedUserIDs)
}

func TestLoadTokenOnlyGetsDefaultWebhookSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "42:xyz")

	cfg, err := Load("/nonexistent/config.yaml")
	require.NoError(t, err)

	require.NotNil(t, cfg.Channels.Telegram)
	assert.Equal(t, DefaultWebhookSecret, cfg.Channels.Telegram.WebhookSecret)
	assert.Empty(t, Validate(&cfg))
}

func TestLoadWithoutTelegramLeavesChannelOff(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("/nonexistent/config.yaml")
	require.NoError(t, err)
	assert.Nil(t, cfg.Channels.Telegram)
}

func TestLoadPrefixedEnvWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "plain")
	t.Setenv("ADAUDIT_TELEGRAM_TOKEN", "prefixed")

	cfg, err := Load("/nonexistent/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, "prefixed", cfg.Channels.Telegram.Token)
}

func TestLoadExpandsSecrets(t *testing.T) {
	clearEnv(t)
	t.Setenv("MY_BOT_TOKEN", "from-env")
	path := writeConfig(t, `
channels:
  telegram:
    token: "${MY_BOT_TOKEN}"
    webhookSecret: "${UNSET_SECRET_VAR}"
  irc:
    server: irc.example.org
    nick: bot
    password: "${MY_BOT_TOKEN}"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Channels.Telegram.Token)
	assert.Equal(t, "${UNSET_SECRET_VAR}", cfg.Channels.Telegram.WebhookSecret)
	assert.Equal(t, "from-env", cfg.Channels.IRC.Password)
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("ADAUDIT_TEST_DOTENV=loaded\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("ADAUDIT_TEST_DOTENV") })

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env"), envFile))
	assert.Equal(t, "loaded", os.Getenv("ADAUDIT_TEST_DOTENV"))
}

func TestLoadDotEnvDoesNotOverride(t *testing.T) {
	t.Setenv("ADAUDIT_TEST_DOTENV2", "process")
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("ADAUDIT_TEST_DOTENV2=file\n"), 0o600))

	require.NoError(t, LoadDotEnv(envFile))
	assert.Equal(t, "process", os.Getenv("ADAUDIT_TEST_DOTENV2"))
}

func TestSplitIDs(t *testing.T) {
	assert.Nil(t, SplitIDs(""))
	assert.Nil(t, SplitIDs(" , "))
	assert.Equal(t, []string{"7"}, SplitIDs("7"))
	assert.Equal(t, []string{"7", "8"}, SplitIDs("7,8"))
}
