// Package config layers .env, ~/.anyrouter/config.toml and process environment
// into one viper instance.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bnema/anyrouter-checkin/internal/application"
	"github.com/bnema/anyrouter-checkin/internal/domain"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvPrefix      = "ANYROUTE"
	ConfigDir      = ".anyrouter"
	ConfigFileName = "config.toml"

	KeyBaseURL       = "base_url"
	KeyHeadless      = "headless"
	KeyEngine        = "engine"
	KeyLocale        = "locale"
	KeyUserAgent     = "user_agent"
	KeySecretsDir    = "secrets.dir"
	KeySecretsStore  = "secrets.backend"
	KeyLogLevel      = "log.level"
	KeyLogFormat     = "log.format"
	KeyTimezone      = "timezone"
	KeyLedgerRedis   = "ledger.redis_url"
	KeyLedgerPrefix  = "ledger.prefix"
	KeyScheduleCron  = "schedule.cron"
	KeyHTTPListen    = "http.listen"
	KeyMailHost      = "notify.mail.host"
	KeyMailPort      = "notify.mail.port"
	KeyMailUsername  = "notify.mail.username"
	KeyMailPassword  = "notify.mail.password"
	KeyMailFrom      = "notify.mail.from"
	KeyMailTo        = "notify.mail.to"
	KeyTelegramToken = "notify.telegram.token"
	KeyTelegramChat  = "notify.telegram.chat_id"
	KeyAMQPURL       = "notify.amqp.url"
	KeyAMQPExchange  = "notify.amqp.exchange"
	KeyAMQPRouting   = "notify.amqp.routing_key"

	keyTimings = "timings."
)

type Config struct {
	BaseURL   string
	Headless  bool
	Engine    string
	Locale    string
	UserAgent string
	// SecretsDir is the root of the file secret store.
	SecretsDir string
	// SecretsBackend is auto (pass with file fallback), pass or file.
	SecretsBackend string
	Location   *time.Location
	Log        LogConfig
	Ledger     LedgerConfig
	Schedule   string
	HTTPListen string
	Mail       MailConfig
	Telegram   TelegramConfig
	AMQP       AMQPConfig
	Timings    application.Timings
}

type LogConfig struct {
	Level  string
	Format string
}

type LedgerConfig struct {
	RedisURL string
	Prefix   string
}

// MailConfig is enabled when Host is set.
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
}

func (c MailConfig) Enabled() bool { return strings.TrimSpace(c.Host) != "" }

type TelegramConfig struct {
	Token  string
	ChatID int64
}

func (c TelegramConfig) Enabled() bool { return strings.TrimSpace(c.Token) != "" }

type AMQPConfig struct {
	URL        string
	Exchange   string
	RoutingKey string
}

func (c AMQPConfig) Enabled() bool { return strings.TrimSpace(c.URL) != "" }

type LoadOptions struct {
	// WorkDir is searched for a .env file. Empty skips .env loading.
	WorkDir string
	// Home holds the ConfigDir directory. Empty uses os.UserHomeDir.
	Home string
}

// Load reads every layer into v and decodes the result. Missing files are not
// an error.
func Load(v *viper.Viper, opts LoadOptions) (*Config, error) {
	if opts.WorkDir != "" {
		if err := loadDotEnv(filepath.Join(opts.WorkDir, ".env")); err != nil {
			return nil, err
		}
	}

	home := opts.Home
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
	}

	setDefaults(v, home)
	bindEnv(v)

	path := filepath.Join(home, ConfigDir, ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("stat config %s: %w", path, err)
	}

	return decode(v)
}

// Path returns the config file location under home.
func Path(home string) string {
	return filepath.Join(home, ConfigDir, ConfigFileName)
}

func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("load %s: %w", path, err)
}

func setDefaults(v *viper.Viper, home string) {
	d := application.DefaultTimings()

	v.SetDefault(KeyBaseURL, domain.DefaultBaseURL)
	v.SetDefault(KeyHeadless, true)
	v.SetDefault(KeyEngine, "playwright")
	v.SetDefault(KeyLocale, "zh-CN")
	v.SetDefault(KeySecretsDir, filepath.Join(home, ConfigDir, "secrets"))
	v.SetDefault(KeySecretsStore, "auto")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyTimezone, "Local")
	v.SetDefault(KeyLedgerPrefix, "arc:run:")
	v.SetDefault(KeyScheduleCron, "0 9 * * *")
	v.SetDefault(KeyHTTPListen, "127.0.0.1:8787")
	v.SetDefault(KeyMailPort, 587)

	v.SetDefault(keyTimings+"navigation_timeout", d.NavigationTimeout)
	v.SetDefault(keyTimings+"page_settle", d.PageSettle)
	v.SetDefault(keyTimings+"popup_dismissals", d.PopupDismissals)
	v.SetDefault(keyTimings+"popup_spacing", d.PopupSpacing)
	v.SetDefault(keyTimings+"mode_switch_settle", d.ModeSwitchSettle)
	v.SetDefault(keyTimings+"focus_pause", d.FocusPause)
	v.SetDefault(keyTimings+"pre_submit_pause", d.PreSubmitPause)
	v.SetDefault(keyTimings+"submit_wait", d.SubmitWait)
	v.SetDefault(keyTimings+"redirect_recovery", d.RedirectRecovery)
	v.SetDefault(keyTimings+"retry_delay", d.RetryDelay)
	v.SetDefault(keyTimings+"account_pacing", d.AccountPacing)
}

func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The bare HEADLESS name predates the prefixed form.
	_ = v.BindEnv(KeyHeadless, EnvPrefix+"_HEADLESS", "HEADLESS")
}

func decode(v *viper.Viper) (*Config, error) {
	engine := strings.ToLower(strings.TrimSpace(v.GetString(KeyEngine)))
	if engine != "playwright" && engine != "rod" {
		return nil, fmt.Errorf("config %s: unknown engine %q", KeyEngine, engine)
	}

	backend := strings.ToLower(strings.TrimSpace(v.GetString(KeySecretsStore)))
	switch backend {
	case "auto", "pass", "file":
	default:
		return nil, fmt.Errorf("config %s: unknown backend %q", KeySecretsStore, backend)
	}

	loc, err := loadLocation(v.GetString(KeyTimezone))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		BaseURL:        strings.TrimRight(strings.TrimSpace(v.GetString(KeyBaseURL)), "/"),
		Headless:       v.GetBool(KeyHeadless),
		Engine:         engine,
		Locale:         v.GetString(KeyLocale),
		UserAgent:      v.GetString(KeyUserAgent),
		SecretsDir:     v.GetString(KeySecretsDir),
		SecretsBackend: backend,
		Location:       loc,
		Log: LogConfig{
			Level:  v.GetString(KeyLogLevel),
			Format: v.GetString(KeyLogFormat),
		},
		Ledger: LedgerConfig{
			RedisURL: v.GetString(KeyLedgerRedis),
			Prefix:   v.GetString(KeyLedgerPrefix),
		},
		Schedule:   v.GetString(KeyScheduleCron),
		HTTPListen: v.GetString(KeyHTTPListen),
		Mail: MailConfig{
			Host:     v.GetString(KeyMailHost),
			Port:     v.GetInt(KeyMailPort),
			Username: v.GetString(KeyMailUsername),
			Password: v.GetString(KeyMailPassword),
			From:     v.GetString(KeyMailFrom),
			To:       splitList(v.GetStringSlice(KeyMailTo)),
		},
		Telegram: TelegramConfig{
			Token:  v.GetString(KeyTelegramToken),
			ChatID: v.GetInt64(KeyTelegramChat),
		},
		AMQP: AMQPConfig{
			URL:        v.GetString(KeyAMQPURL),
			Exchange:   v.GetString(KeyAMQPExchange),
			RoutingKey: v.GetString(KeyAMQPRouting),
		},
		Timings: application.Timings{
			NavigationTimeout: v.GetDuration(keyTimings + "navigation_timeout"),
			PageSettle:        v.GetDuration(keyTimings + "page_settle"),
			PopupDismissals:   v.GetInt(keyTimings + "popup_dismissals"),
			PopupSpacing:      v.GetDuration(keyTimings + "popup_spacing"),
			ModeSwitchSettle:  v.GetDuration(keyTimings + "mode_switch_settle"),
			FocusPause:        v.GetDuration(keyTimings + "focus_pause"),
			PreSubmitPause:    v.GetDuration(keyTimings + "pre_submit_pause"),
			SubmitWait:        v.GetDuration(keyTimings + "submit_wait"),
			RedirectRecovery:  v.GetDuration(keyTimings + "redirect_recovery"),
			RetryDelay:        v.GetDuration(keyTimings + "retry_delay"),
			AccountPacing:     v.GetDuration(keyTimings + "account_pacing"),
		}.WithDefaults(),
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = domain.DefaultBaseURL
	}

	return cfg, nil
}

func loadLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", KeyTimezone, err)
	}

	return loc, nil
}

// splitList accepts both a TOML array and a comma separated env value.
func splitList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}

	return out
}
