package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bnema/anyrouter-checkin/internal/application"
	"github.com/bnema/anyrouter-checkin/internal/domain"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, home, body string) {
	t.Helper()

	dir := filepath.Join(home, ConfigDir)
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(body), 0o600))
}

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()

	cfg, err := Load(viper.New(), LoadOptions{Home: home})
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultBaseURL, cfg.BaseURL)
	assert.True(t, cfg.Headless)
	assert.Equal(t, "playwright", cfg.Engine)
	assert.Equal(t, "zh-CN", cfg.Locale)
	assert.Equal(t, filepath.Join(home, ConfigDir, "secrets"), cfg.SecretsDir)
	assert.Equal(t, time.Local, cfg.Location)
	assert.Equal(t, application.DefaultTimings(), cfg.Timings)
	assert.False(t, cfg.Mail.Enabled())
	assert.False(t, cfg.Telegram.Enabled())
	assert.False(t, cfg.AMQP.Enabled())
}

func TestLoadConfigFile(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, home, `
base_url = "https://mirror.example/"
engine = "rod"
timezone = "UTC"

[timings]
account_pacing = "10s"

[notify.mail]
host = "smtp.example.test"
to = ["a@example.test", "b@example.test"]
`)

	cfg, err := Load(viper.New(), LoadOptions{Home: home})
	require.NoError(t, err)

	assert.Equal(t, "https://mirror.example", cfg.BaseURL)
	assert.Equal(t, "rod", cfg.Engine)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Equal(t, 10*time.Second, cfg.Timings.AccountPacing)
	assert.Equal(t, 60*time.Second, cfg.Timings.NavigationTimeout)
	assert.True(t, cfg.Mail.Enabled())
	assert.Equal(t, 587, cfg.Mail.Port)
	assert.Equal(t, []string{"a@example.test", "b@example.test"}, cfg.Mail.To)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, home, "engine = \"rod\"\nheadless = true\n")
	t.Setenv("ANYROUTE_ENGINE", "playwright")
	t.Setenv("ANYROUTE_BASE_URL", "https://env.example")
	t.Setenv("HEADLESS", "false")
	t.Setenv("ANYROUTE_NOTIFY_TELEGRAM_TOKEN", "123:abc")
	t.Setenv("ANYROUTE_NOTIFY_TELEGRAM_CHAT_ID", "42")
	t.Setenv("ANYROUTE_NOTIFY_MAIL_TO", "a@x, b@x")

	cfg, err := Load(viper.New(), LoadOptions{Home: home})
	require.NoError(t, err)

	assert.Equal(t, "playwright", cfg.Engine)
	assert.Equal(t, "https://env.example", cfg.BaseURL)
	assert.False(t, cfg.Headless)
	assert.True(t, cfg.Telegram.Enabled())
	assert.Equal(t, int64(42), cfg.Telegram.ChatID)
	assert.Equal(t, []string{"a@x", "b@x"}, cfg.Mail.To)
}

func TestLoadDotEnv(t *testing.T) {
	home := t.TempDir()
	work := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(work, ".env"), []byte("ANYROUTE_LOG_LEVEL=debug\n"), 0o600))
	t.Setenv("ANYROUTE_LOG_LEVEL", "")
	require.NoError(t, os.Unsetenv("ANYROUTE_LOG_LEVEL"))
	t.Cleanup(func() { _ = os.Unsetenv("ANYROUTE_LOG_LEVEL") })

	cfg, err := Load(viper.New(), LoadOptions{Home: home, WorkDir: work})
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadRejectsUnknownEngine(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, home, `engine = "webkit"`)

	_, err := Load(viper.New(), LoadOptions{Home: home})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown engine "webkit"`)
}

func TestLoadRejectsBadTimezone(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, home, `timezone = "Mars/Olympus"`)

	_, err := Load(viper.New(), LoadOptions{Home: home})
	require.Error(t, err)
}

func TestWriteSampleRoundTrips(t *testing.T) {
	home := t.TempDir()
	path := Path(home)

	require.NoError(t, WriteSample(path))
	require.ErrorIs(t, WriteSample(path), ErrConfigExists)

	cfg, err := Load(viper.New(), LoadOptions{Home: home})
	require.NoError(t, err)
	assert.Equal(t, "playwright", cfg.Engine)
	assert.Equal(t, application.DefaultTimings(), cfg.Timings)
}
