package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bnema/anyrouter-checkin/internal/application"
	"github.com/bnema/anyrouter-checkin/internal/domain"
	toml "github.com/pelletier/go-toml/v2"
)

var ErrConfigExists = errors.New("config file already exists")

type sampleFile struct {
	BaseURL  string         `toml:"base_url"`
	Headless bool           `toml:"headless"`
	Engine   string         `toml:"engine"`
	Locale   string         `toml:"locale"`
	Timezone string         `toml:"timezone"`
	Log      sampleLog      `toml:"log"`
	Schedule sampleSchedule `toml:"schedule"`
	HTTP     sampleHTTP     `toml:"http"`
	Timings  sampleTimings  `toml:"timings"`
}

type sampleLog struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type sampleSchedule struct {
	Cron string `toml:"cron"`
}

type sampleHTTP struct {
	Listen string `toml:"listen"`
}

type sampleTimings struct {
	NavigationTimeout string `toml:"navigation_timeout"`
	PageSettle        string `toml:"page_settle"`
	SubmitWait        string `toml:"submit_wait"`
	RetryDelay        string `toml:"retry_delay"`
	AccountPacing     string `toml:"account_pacing"`
}

// Sample returns a starter config.toml with the built-in defaults spelled out.
func Sample() ([]byte, error) {
	d := application.DefaultTimings()
	data, err := toml.Marshal(sampleFile{
		BaseURL:  domain.DefaultBaseURL,
		Headless: true,
		Engine:   "playwright",
		Locale:   "zh-CN",
		Timezone: "Local",
		Log:      sampleLog{Level: "info", Format: "console"},
		Schedule: sampleSchedule{Cron: "0 9 * * *"},
		HTTP:     sampleHTTP{Listen: "127.0.0.1:8787"},
		Timings: sampleTimings{
			NavigationTimeout: d.NavigationTimeout.String(),
			PageSettle:        d.PageSettle.String(),
			SubmitWait:        d.SubmitWait.String(),
			RetryDelay:        d.RetryDelay.String(),
			AccountPacing:     d.AccountPacing.String(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encode sample config: %w", err)
	}

	return data, nil
}

// WriteSample creates path with Sample contents unless it exists.
func WriteSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config %s: %w", path, err)
	}

	data, err := Sample()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}

	return nil
}
