package application

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/anyrouter-checkin/internal/domain"
	"github.com/bnema/anyrouter-checkin/internal/ports"
	"go.uber.org/zap"
)

type LoginState int

const (
	LoginInit LoginState = iota
	LoginPageLoaded
	LoginModeSwitched
	LoginCredentialsFilled
	LoginSubmitted
	LoginSucceeded
	LoginFailed
)

func (s LoginState) String() string {
	switch s {
	case LoginInit:
		return "init"
	case LoginPageLoaded:
		return "page_loaded"
	case LoginModeSwitched:
		return "mode_switched"
	case LoginCredentialsFilled:
		return "credentials_filled"
	case LoginSubmitted:
		return "submitted"
	case LoginSucceeded:
		return "succeeded"
	case LoginFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type Credentials struct {
	Email    string
	Password string
}

type LoginResult struct {
	domain.LoginOutcome
	Attempts int
}

const sessionUserKey = "user"

const pageDiagnosticsScript = `() => {
	const result = { buttons: [], links: [], inputs: [] };
	document.querySelectorAll('button').forEach(el => {
		const text = (el.innerText || '').trim();
		if (text) result.buttons.push(text);
	});
	document.querySelectorAll('a, span[role="button"], div[role="button"]').forEach(el => {
		const text = (el.innerText || '').trim();
		if (text && text.length < 50 && result.links.length < 10) result.links.push(text);
	});
	document.querySelectorAll('input').forEach(el => {
		result.inputs.push({ type: el.type, id: el.id, placeholder: el.placeholder });
	});
	return result;
}`

const errorBannerScript = `(args) => {
	for (const el of document.querySelectorAll(args.selector)) {
		const text = (el.innerText || '').trim();
		if (text && text.length < args.maxLen) return text;
	}
	return null;
}`

type LoginController struct {
	scanner *Scanner
	clock   ports.Clock
	timings Timings
	retry   RetryPolicy
	logger  *zap.Logger
}

func NewLoginController(scanner *Scanner, clock ports.Clock, timings Timings, retry RetryPolicy, logger *zap.Logger) *LoginController {
	if logger == nil {
		logger = zap.NewNop()
	}
	if scanner == nil {
		scanner = NewScanner(logger)
	}
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &LoginController{
		scanner: scanner,
		clock:   clock,
		timings: timings.WithDefaults(),
		retry:   retry,
		logger:  logger.Named("login"),
	}
}

// Login drives the login form until a success signal shows up or the retry
// policy is exhausted. Each attempt reloads loginURL.
func (c *LoginController) Login(ctx context.Context, page ports.Page, loginURL string, creds Credentials) (LoginResult, error) {
	var outcome domain.LoginOutcome
	attempts, err := c.retry.Run(ctx, c.clock, func(ctx context.Context, attempt int) error {
		c.logger.Info("login attempt", zap.Int("attempt", attempt), zap.Int("max_attempts", c.retry.MaxAttempts), zap.String("url", loginURL))

		result, err := c.attempt(ctx, page, loginURL, creds)
		if err != nil {
			c.logger.Warn("login attempt failed", zap.Int("attempt", attempt), zap.Error(err))
			return err
		}
		outcome = result

		return nil
	})
	if err != nil {
		return LoginResult{Attempts: attempts}, fmt.Errorf("login: %w", err)
	}

	return LoginResult{LoginOutcome: outcome, Attempts: attempts}, nil
}

func (c *LoginController) attempt(ctx context.Context, page ports.Page, loginURL string, creds Credentials) (domain.LoginOutcome, error) {
	state := LoginInit
	advance := func(next LoginState) {
		c.logger.Debug("login state", zap.Stringer("from", state), zap.Stringer("to", next))
		state = next
	}

	outcome, err := c.steps(ctx, page, loginURL, creds, advance)
	if err != nil {
		advance(LoginFailed)
		return domain.LoginOutcome{}, err
	}
	advance(LoginSucceeded)

	return outcome, nil
}

func (c *LoginController) steps(ctx context.Context, page ports.Page, loginURL string, creds Credentials, advance func(LoginState)) (domain.LoginOutcome, error) {
	if err := page.Navigate(ctx, loginURL, c.timings.NavigationTimeout); err != nil {
		return domain.LoginOutcome{}, fmt.Errorf("open login page: %w: %w", domain.ErrNavigation, err)
	}
	if err := c.clock.Sleep(ctx, c.timings.PageSettle); err != nil {
		return domain.LoginOutcome{}, err
	}
	if err := c.dismissPopups(ctx, page); err != nil {
		return domain.LoginOutcome{}, err
	}
	advance(LoginPageLoaded)
	c.logPageDiagnostics(ctx, page)

	if err := c.switchMode(ctx, page); err != nil {
		return domain.LoginOutcome{}, err
	}
	advance(LoginModeSwitched)

	if err := c.fill(ctx, page, usernameTarget, creds.Email); err != nil {
		return domain.LoginOutcome{}, err
	}
	if err := c.fill(ctx, page, passwordTarget, creds.Password); err != nil {
		return domain.LoginOutcome{}, err
	}
	advance(LoginCredentialsFilled)

	if err := c.clock.Sleep(ctx, c.timings.PreSubmitPause); err != nil {
		return domain.LoginOutcome{}, err
	}
	submit, err := c.scanner.Find(ctx, page, submitTarget)
	if err != nil {
		return domain.LoginOutcome{}, err
	}
	if err := submit.Element.Click(ctx); err != nil {
		return domain.LoginOutcome{}, fmt.Errorf("click %s: %w", submitTarget.Name, err)
	}
	advance(LoginSubmitted)

	if err := c.clock.Sleep(ctx, c.timings.SubmitWait); err != nil {
		return domain.LoginOutcome{}, err
	}

	return c.judge(ctx, page)
}

func (c *LoginController) dismissPopups(ctx context.Context, page ports.Page) error {
	for i := 0; i < c.timings.PopupDismissals; i++ {
		if err := page.PressKey(ctx, "Escape"); err != nil {
			c.logger.Debug("dismiss popup", zap.Error(err))
		}
		if err := c.clock.Sleep(ctx, c.timings.PopupSpacing); err != nil {
			return err
		}
	}

	return nil
}

func (c *LoginController) switchMode(ctx context.Context, page ports.Page) error {
	present, err := c.scanner.Exists(ctx, page, credentialFieldSelectors...)
	if err != nil {
		return err
	}
	if present {
		c.logger.Debug("credential form already visible")
		return nil
	}

	match, err := c.scanner.Find(ctx, page, modeSwitchTarget)
	if err != nil {
		if errors.Is(err, domain.ErrElementNotFound) && modeSwitchTarget.Policy == FailOpen {
			c.logger.Warn("login mode switch not found, assuming credential form is active")
			return nil
		}
		return err
	}

	if err := match.Element.Click(ctx); err != nil {
		if modeSwitchTarget.Policy != FailOpen {
			return fmt.Errorf("click %s: %w", modeSwitchTarget.Name, err)
		}
		c.logger.Warn("login mode switch click failed", zap.Error(err))
		return nil
	}
	c.logger.Debug("switched login mode", zap.String("via", match.Via))

	return c.clock.Sleep(ctx, c.timings.ModeSwitchSettle)
}

func (c *LoginController) fill(ctx context.Context, page ports.Page, target Target, value string) error {
	match, err := c.scanner.Find(ctx, page, target)
	if err != nil {
		return err
	}
	if err := match.Element.Click(ctx); err != nil {
		return fmt.Errorf("focus %s: %w", target.Name, err)
	}
	if err := c.clock.Sleep(ctx, c.timings.FocusPause); err != nil {
		return err
	}
	if err := match.Element.Fill(ctx, value); err != nil {
		return fmt.Errorf("fill %s: %w", target.Name, err)
	}

	return nil
}

func (c *LoginController) judge(ctx context.Context, page ports.Page) (domain.LoginOutcome, error) {
	banner := c.errorBanner(ctx, page)
	if banner != "" {
		c.logger.Warn("page shows a message after submit", zap.String("message", banner))
	}

	if userID, ok := c.sessionUser(ctx, page); ok {
		c.logger.Info("login confirmed by session record", zap.String("user_id", userID))
		return domain.LoginOutcome{Success: true, SessionUserID: userID}, nil
	}

	current := page.URL()
	if current != "" && !strings.Contains(current, domain.LoginPath) {
		c.logger.Info("left login page, treating as logged in", zap.String("url", current))
		if err := c.clock.Sleep(ctx, c.timings.RedirectRecovery); err != nil {
			return domain.LoginOutcome{}, err
		}
		userID, _ := c.sessionUser(ctx, page)
		return domain.LoginOutcome{Success: true, SessionUserID: userID}, nil
	}

	if banner != "" {
		return domain.LoginOutcome{}, fmt.Errorf("still on login page (%s): %w", banner, domain.ErrLoginRejected)
	}
	return domain.LoginOutcome{}, fmt.Errorf("still on login page: %w", domain.ErrLoginRejected)
}

// sessionUser reports whether a session record is stored and returns its id,
// which may be empty.
func (c *LoginController) sessionUser(ctx context.Context, page ports.Page) (string, bool) {
	raw, found, err := page.LocalStorageItem(ctx, sessionUserKey)
	if err != nil {
		c.logger.Debug("read session record", zap.Error(err))
		return "", false
	}
	if !found || strings.TrimSpace(raw) == "" {
		return "", false
	}

	userID, username, err := parseSessionUser(raw)
	if err != nil {
		c.logger.Debug("parse session record", zap.Error(err))
		return "", false
	}
	if username != "" {
		c.logger.Debug("session user", zap.String("username", username))
	}

	return userID, true
}

func parseSessionUser(raw string) (string, string, error) {
	decoder := json.NewDecoder(bytes.NewReader([]byte(raw)))
	decoder.UseNumber()

	var record map[string]any
	if err := decoder.Decode(&record); err != nil {
		return "", "", fmt.Errorf("decode session record: %w", err)
	}
	if record == nil {
		return "", "", errors.New("decode session record: null record")
	}

	username, _ := record["username"].(string)
	switch id := record["id"].(type) {
	case json.Number:
		return id.String(), username, nil
	case string:
		return strings.TrimSpace(id), username, nil
	default:
		return "", username, nil
	}
}

func (c *LoginController) errorBanner(ctx context.Context, page ports.Page) string {
	raw, err := page.Evaluate(ctx, errorBannerScript, map[string]any{
		"selector": errorBannerSelector,
		"maxLen":   errorBannerMaxLen,
	})
	if err != nil {
		c.logger.Debug("read error banner", zap.Error(err))
		return ""
	}

	var text *string
	if err := json.Unmarshal(raw, &text); err != nil || text == nil {
		return ""
	}

	return strings.TrimSpace(*text)
}

type pageDiagnostics struct {
	Buttons []string `json:"buttons"`
	Links   []string `json:"links"`
	Inputs  []struct {
		Type        string `json:"type"`
		ID          string `json:"id"`
		Placeholder string `json:"placeholder"`
	} `json:"inputs"`
}

func (c *LoginController) logPageDiagnostics(ctx context.Context, page ports.Page) {
	if !c.logger.Core().Enabled(zap.DebugLevel) {
		return
	}

	raw, err := page.Evaluate(ctx, pageDiagnosticsScript, nil)
	if err != nil {
		c.logger.Debug("collect page diagnostics", zap.Error(err))
		return
	}

	var diag pageDiagnostics
	if err := json.Unmarshal(raw, &diag); err != nil {
		c.logger.Debug("decode page diagnostics", zap.Error(err))
		return
	}

	inputs := make([]string, 0, len(diag.Inputs))
	for _, input := range diag.Inputs {
		inputs = append(inputs, fmt.Sprintf("type=%s id=%s placeholder=%s", input.Type, input.ID, input.Placeholder))
	}
	c.logger.Debug("page elements", zap.Strings("buttons", diag.Buttons), zap.Strings("links", diag.Links), zap.Strings("inputs", inputs))
}
