package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	browseradapter "github.com/bnema/anyrouter-checkin/internal/adapters/browser"
	playwrightbrowser "github.com/bnema/anyrouter-checkin/internal/adapters/browser/playwright"
	rodbrowser "github.com/bnema/anyrouter-checkin/internal/adapters/browser/rod"
	redisledger "github.com/bnema/anyrouter-checkin/internal/adapters/ledger/redis"
	"github.com/bnema/anyrouter-checkin/internal/adapters/notify"
	amqpnotify "github.com/bnema/anyrouter-checkin/internal/adapters/notify/amqp"
	mailnotify "github.com/bnema/anyrouter-checkin/internal/adapters/notify/mail"
	telegramnotify "github.com/bnema/anyrouter-checkin/internal/adapters/notify/telegram"
	reportrender "github.com/bnema/anyrouter-checkin/internal/adapters/render/report"
	envsource "github.com/bnema/anyrouter-checkin/internal/adapters/repo/env"
	tomlrepo "github.com/bnema/anyrouter-checkin/internal/adapters/repo/toml"
	chainstore "github.com/bnema/anyrouter-checkin/internal/adapters/secrets/chain"
	filestore "github.com/bnema/anyrouter-checkin/internal/adapters/secrets/file"
	passstore "github.com/bnema/anyrouter-checkin/internal/adapters/secrets/pass"
	"github.com/bnema/anyrouter-checkin/internal/application"
	"github.com/bnema/anyrouter-checkin/internal/config"
	"github.com/bnema/anyrouter-checkin/internal/domain"
	"github.com/bnema/anyrouter-checkin/internal/observability"
	"github.com/bnema/anyrouter-checkin/internal/ports"
	"github.com/mattn/go-isatty"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var ErrBatchFailed = errors.New("one or more accounts failed to check in")

type browserOpener func(ctx context.Context) (ports.Browser, error)

// wireOptions replaces pieces of the real wiring in tests.
type wireOptions struct {
	openBrowser browserOpener
	clock       ports.Clock
	logOutput   io.Writer
	workDir     string
	isTerminal  func(fd uintptr) bool
}

type app struct {
	cfg             *config.Config
	home            string
	logger          *zap.Logger
	service         *application.Service
	accounts        ports.AccountSource
	accountsPath    string
	secretStore     ports.SecretStore
	reports         ports.ReportRepository
	ledger          ports.RunLedger
	notifier        ports.Notifier
	openBrowser     browserOpener
	clock           ports.Clock
	isTerminal      func(fd uintptr) bool
	reportRenderer  func([]domain.BatchReport, reportrender.RenderOptions) (string, error)
	historyRenderer func([]domain.BatchReport, reportrender.RenderOptions) (string, error)
	closers         []func() error
}

func wireApp(opts wireOptions) (*app, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	workDir := opts.workDir
	if workDir == "" {
		if wd, err := os.Getwd(); err == nil {
			workDir = wd
		}
	}

	v := viper.New()
	cfg, err := config.Load(v, config.LoadOptions{WorkDir: workDir, Home: homeDir})
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logOutput := opts.logOutput
	if logOutput == nil {
		logOutput = os.Stderr
	}
	logger, err := observability.NewLogger(cfg.Log.Level, cfg.Log.Format, logOutput)
	if err != nil {
		return nil, fmt.Errorf("wire logger: %w", err)
	}

	repo, err := tomlrepo.NewRepository(v)
	if err != nil {
		return nil, fmt.Errorf("wire account repository: %w", err)
	}
	reports, err := tomlrepo.NewReportRepository(v)
	if err != nil {
		return nil, fmt.Errorf("wire report repository: %w", err)
	}

	secretStore, err := wireSecretStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire secret store chain: %w", err)
	}

	clock := opts.clock
	if clock == nil {
		clock = ports.SystemClock{}
	}

	a := &app{
		cfg:             cfg,
		home:            homeDir,
		logger:          logger,
		service:         application.NewService(repo, secretStore, cfg.BaseURL),
		accounts:        application.FirstNonEmpty{repo, envsource.NewSource()},
		accountsPath:    repo.Path(),
		secretStore:     secretStore,
		reports:         reports,
		clock:           clock,
		reportRenderer:  reportrender.Render,
		historyRenderer: reportrender.RenderHistory,
	}

	if err := a.wireLedger(); err != nil {
		return nil, err
	}
	if err := a.wireNotifier(); err != nil {
		return nil, err
	}

	a.openBrowser = opts.openBrowser
	if a.openBrowser == nil {
		a.openBrowser = a.launchBrowser
	}
	a.isTerminal = opts.isTerminal
	if a.isTerminal == nil {
		a.isTerminal = isatty.IsTerminal
	}

	return a, nil
}

func wireSecretStore(cfg *config.Config) (ports.SecretStore, error) {
	switch cfg.SecretsBackend {
	case "file":
		return filestore.NewStore(cfg.SecretsDir), nil
	case "pass":
		return passstore.NewStore(), nil
	default:
		return chainstore.NewPassFirstWithFileFallback(cfg.SecretsDir)
	}
}

func (a *app) wireLedger() error {
	if a.cfg.Ledger.RedisURL == "" {
		a.ledger = application.NewHistoryLedger(a.reports, a.cfg.Location)
		return nil
	}

	ledger, err := redisledger.Open(a.cfg.Ledger.RedisURL, redisledger.WithPrefix(a.cfg.Ledger.Prefix))
	if err != nil {
		return fmt.Errorf("wire run ledger: %w", err)
	}
	a.ledger = ledger
	a.closers = append(a.closers, ledger.Close)

	return nil
}

func (a *app) wireNotifier() error {
	var targets notify.Fanout

	if a.cfg.Mail.Enabled() {
		n, err := mailnotify.NewNotifier(mailnotify.Config{
			Host:     a.cfg.Mail.Host,
			Port:     a.cfg.Mail.Port,
			Username: a.cfg.Mail.Username,
			Password: a.cfg.Mail.Password,
			From:     a.cfg.Mail.From,
			To:       a.cfg.Mail.To,
		}, a.cfg.Location)
		if err != nil {
			return err
		}
		targets = append(targets, notify.Named{Name: "mail", Notifier: n})
	}

	if a.cfg.Telegram.Enabled() {
		n, err := telegramnotify.NewNotifier(telegramnotify.Config{
			Token:  a.cfg.Telegram.Token,
			ChatID: a.cfg.Telegram.ChatID,
		}, a.cfg.Location, nil)
		if err != nil {
			return err
		}
		targets = append(targets, notify.Named{Name: "telegram", Notifier: n})
	}

	if a.cfg.AMQP.Enabled() {
		n, err := amqpnotify.NewPublisher(amqpnotify.Config{
			URL:        a.cfg.AMQP.URL,
			Exchange:   a.cfg.AMQP.Exchange,
			RoutingKey: a.cfg.AMQP.RoutingKey,
		}, a.cfg.Location, a.logger)
		if err != nil {
			return err
		}
		targets = append(targets, notify.Named{Name: "amqp", Notifier: n})
	}

	if len(targets) > 0 {
		a.notifier = targets
	}

	return nil
}

func (a *app) launchBrowser(ctx context.Context) (ports.Browser, error) {
	opts := browseradapter.Options{
		Headless:  a.cfg.Headless,
		Locale:    a.cfg.Locale,
		UserAgent: a.cfg.UserAgent,
	}

	switch a.cfg.Engine {
	case browseradapter.EngineRod:
		return rodbrowser.Launch(ctx, opts, a.logger)
	default:
		return playwrightbrowser.Launch(ctx, opts, a.logger)
	}
}

// newOrchestrator assembles the per-account pipeline on top of browser.
func (a *app) newOrchestrator(browser ports.Browser, progress func(done, total int, outcome domain.AccountOutcome)) *application.BatchOrchestrator {
	timings := a.cfg.Timings
	scanner := application.NewScanner(a.logger)
	login := application.NewLoginController(scanner, a.clock, timings, application.DefaultLoginRetry(timings), a.logger)
	checkin := application.NewCheckinConfirmer(a.logger)
	runner := application.NewSessionRunner(browser, a.secretStore, login, checkin, a.cfg.BaseURL, a.logger)

	opts := []application.BatchOption{
		application.WithReportRepository(a.reports),
		application.WithRunLedger(a.ledger),
		application.WithLocation(a.cfg.Location),
	}
	if a.notifier != nil {
		opts = append(opts, application.WithNotifier(a.notifier))
	}
	if progress != nil {
		opts = append(opts, application.WithProgress(progress))
	}

	return application.NewBatchOrchestrator(runner, a.clock, timings.AccountPacing, a.logger, opts...)
}

type batchResult struct {
	report  domain.BatchReport
	ok      bool
	skipped bool
}

// runBatch loads accounts, opens one browser and runs the whole batch.
func (a *app) runBatch(ctx context.Context, oncePerDay bool, progress func(done, total int, outcome domain.AccountOutcome)) (batchResult, error) {
	if oncePerDay {
		guard := application.NewDailyGuard(a.ledger, a.clock, a.cfg.Location, a.logger)
		if !guard.ShouldRun(ctx) {
			return batchResult{skipped: true}, nil
		}
	}

	accounts, err := a.accounts.List(ctx)
	if err != nil {
		return batchResult{}, fmt.Errorf("load accounts: %w", err)
	}
	if len(accounts) == 0 {
		return batchResult{}, fmt.Errorf("%w: add one with `arc account add` or set %s", domain.ErrNoAccounts, envsource.AccountsVar)
	}

	browser, err := a.openBrowser(ctx)
	if err != nil {
		return batchResult{}, fmt.Errorf("open browser: %w", err)
	}
	defer func() {
		if closeErr := browser.Close(); closeErr != nil {
			a.logger.Warn("close browser", zap.Error(closeErr))
		}
	}()

	report, ok := a.newOrchestrator(browser, progress).Run(ctx, accounts)

	return batchResult{report: report, ok: ok}, nil
}

func (a *app) renderOptions() reportrender.RenderOptions {
	return reportrender.RenderOptions{Location: a.cfg.Location}
}

func (a *app) configPath() string {
	return config.Path(a.home)
}

func (a *app) secretsDir() string {
	if a.cfg.SecretsDir != "" {
		return a.cfg.SecretsDir
	}
	return filepath.Join(a.home, config.ConfigDir, "secrets")
}

func (a *app) Close() error {
	var errs []error
	for _, closeFn := range a.closers {
		errs = append(errs, closeFn())
	}
	_ = a.logger.Sync()

	return errors.Join(errs...)
}
