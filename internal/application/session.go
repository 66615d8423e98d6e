package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/anyrouter-checkin/internal/domain"
	"github.com/bnema/anyrouter-checkin/internal/ports"
	"go.uber.org/zap"
)

// WithSession runs fn inside a fresh browser session and always closes it,
// also when fn panics.
func WithSession(ctx context.Context, browser ports.Browser, fn func(ports.Session) error) (err error) {
	session, err := browser.NewSession(ctx)
	if err != nil {
		return fmt.Errorf("open browser session: %w", err)
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close browser session: %w", closeErr))
		}
	}()

	return fn(session)
}

type SessionRunner struct {
	browser ports.Browser
	secrets ports.SecretStore
	login   *LoginController
	checkin *CheckinConfirmer
	baseURL string
	logger  *zap.Logger
}

func NewSessionRunner(browser ports.Browser, secrets ports.SecretStore, login *LoginController, checkin *CheckinConfirmer, baseURL string, logger *zap.Logger) *SessionRunner {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &SessionRunner{
		browser: browser,
		secrets: secrets,
		login:   login,
		checkin: checkin,
		baseURL: baseURL,
		logger:  logger.Named("session"),
	}
}

// Run processes one account end to end. Failures are reported in the outcome.
func (r *SessionRunner) Run(ctx context.Context, account domain.Account) domain.AccountOutcome {
	outcome := domain.AccountOutcome{Name: account.DisplayName()}
	logger := r.logger.With(zap.String("account", outcome.Name))

	creds, err := r.credentials(ctx, account)
	if err != nil {
		logger.Error("resolve credentials", zap.Error(err))
		outcome.Error = err.Error()
		return outcome
	}

	baseURL := account.ResolveBaseURL(r.baseURL)
	err = WithSession(ctx, r.browser, func(session ports.Session) error {
		page := session.Page()

		result, err := r.login.Login(ctx, page, account.LoginURL(r.baseURL), creds)
		outcome.Attempts = result.Attempts
		if err != nil {
			return err
		}
		logger.Info("logged in", zap.Int("attempts", result.Attempts), zap.String("user_id", result.SessionUserID))

		checkin, checkinErr := r.checkin.Checkin(ctx, page, baseURL)
		outcome.Message = checkin.Message
		outcome.AlreadyDone = checkin.AlreadyDone

		status, statusErr := r.checkin.FetchStatus(ctx, page, baseURL, result.SessionUserID)
		if statusErr != nil {
			logger.Warn("account status unavailable", zap.Error(statusErr))
		} else {
			outcome.StatusSummary = status.Summary()
		}

		if checkinErr != nil {
			return fmt.Errorf("check-in: %w", checkinErr)
		}
		outcome.Success = checkin.Success

		return nil
	})
	if err != nil {
		if outcome.Success {
			logger.Warn("session teardown", zap.Error(err))
		} else {
			logger.Error("account failed", zap.Error(err))
			outcome.Error = err.Error()
		}
	}

	return outcome
}

func (r *SessionRunner) credentials(ctx context.Context, account domain.Account) (Credentials, error) {
	creds := Credentials{Email: strings.TrimSpace(account.Email), Password: account.Password}
	if creds.Email == "" {
		return Credentials{}, fmt.Errorf("account %q has no email", account.DisplayName())
	}
	if creds.Password != "" {
		return creds, nil
	}

	ref := strings.TrimSpace(account.PasswordRef)
	if ref == "" {
		return Credentials{}, fmt.Errorf("account %q has no password", account.DisplayName())
	}
	if r.secrets == nil {
		return Credentials{}, fmt.Errorf("account %q references secret %q but no secret store is configured", account.DisplayName(), ref)
	}

	password, err := r.secrets.Get(ctx, ref)
	if err != nil {
		return Credentials{}, fmt.Errorf("load password %q: %w", ref, err)
	}
	if password == "" {
		return Credentials{}, fmt.Errorf("load password %q: %w", ref, domain.ErrSecretNotFound)
	}
	creds.Password = password

	return creds, nil
}
