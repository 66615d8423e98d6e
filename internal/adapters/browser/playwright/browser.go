// Package playwright drives Chromium through playwright-go.
package playwright

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bnema/anyrouter-checkin/internal/adapters/browser"
	"github.com/bnema/anyrouter-checkin/internal/domain"
	"github.com/bnema/anyrouter-checkin/internal/ports"
	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

const actionTimeout = 10 * time.Second

var (
	_ ports.Browser = (*Browser)(nil)
	_ ports.Session = (*Session)(nil)
	_ ports.Page    = (*Page)(nil)
	_ ports.Element = (*Element)(nil)
)

// Install downloads the playwright driver and Chromium.
func Install() error {
	if err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}}); err != nil {
		return fmt.Errorf("install playwright chromium: %w", err)
	}

	return nil
}

type Browser struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	opts    browser.Options
	logger  *zap.Logger

	closeOnce sync.Once
	closeErr  error
}

// Launch starts the playwright driver and one Chromium process.
func Launch(ctx context.Context, opts browser.Options, logger *zap.Logger) (*Browser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}

	chromium, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	})
	if err != nil {
		return nil, errors.Join(fmt.Errorf("launch chromium: %w", err), pw.Stop())
	}

	logger = logger.Named("playwright")
	logger.Debug("browser launched", zap.Bool("headless", opts.Headless))

	return &Browser{pw: pw, browser: chromium, opts: opts, logger: logger}, nil
}

func (b *Browser) NewSession(ctx context.Context) (ports.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	contextOpts := playwright.BrowserNewContextOptions{
		Locale: playwright.String(b.opts.ResolvedLocale()),
	}
	if b.opts.UserAgent != "" {
		contextOpts.UserAgent = playwright.String(b.opts.UserAgent)
	}

	bctx, err := b.browser.NewContext(contextOpts)
	if err != nil {
		return nil, fmt.Errorf("create browser context: %w", err)
	}
	page, err := bctx.NewPage()
	if err != nil {
		return nil, errors.Join(fmt.Errorf("open page: %w", err), bctx.Close())
	}

	return &Session{bctx: bctx, page: &Page{page: page}}, nil
}

func (b *Browser) Close() error {
	b.closeOnce.Do(func() {
		var errs []error
		if err := b.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chromium: %w", err))
		}
		if err := b.pw.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop playwright: %w", err))
		}
		b.closeErr = errors.Join(errs...)
	})

	return b.closeErr
}

type Session struct {
	bctx playwright.BrowserContext
	page *Page

	closeOnce sync.Once
	closeErr  error
}

func (s *Session) Page() ports.Page { return s.page }

func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		if err := s.bctx.Close(); err != nil {
			s.closeErr = fmt.Errorf("close browser context: %w", err)
		}
	})

	return s.closeErr
}

type Page struct {
	page playwright.Page
}

func (p *Page) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		return fmt.Errorf("%w: goto %s: %w", domain.ErrNavigation, url, err)
	}

	return nil
}

func (p *Page) Query(ctx context.Context, selector string) (ports.Element, error) {
	return p.QueryNth(ctx, selector, 0)
}

func (p *Page) QueryNth(ctx context.Context, selector string, index int) (ports.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	locator := p.page.Locator(selector)
	count, err := locator.Count()
	if err != nil {
		return nil, fmt.Errorf("count %q: %w", selector, err)
	}
	if index < 0 || index >= count {
		return nil, nil
	}

	return &Element{locator: locator.Nth(index)}, nil
}

func (p *Page) QueryTexts(ctx context.Context, selector string) ([]string, error) {
	raw, err := p.Evaluate(ctx, browser.TextsScript, selector)
	if err != nil {
		return nil, err
	}

	return browser.DecodeTexts(raw)
}

func (p *Page) PressKey(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.page.Keyboard().Press(key); err != nil {
		return fmt.Errorf("press %s: %w", key, err)
	}

	return nil
}

func (p *Page) Evaluate(ctx context.Context, script string, arg any) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	normalized, err := browser.NormalizeArg(arg)
	if err != nil {
		return nil, err
	}
	value, err := p.page.Evaluate(script, normalized)
	if err != nil {
		return nil, fmt.Errorf("evaluate script: %w", err)
	}

	return browser.EncodeResult(value)
}

func (p *Page) LocalStorageItem(ctx context.Context, key string) (string, bool, error) {
	raw, err := p.Evaluate(ctx, browser.LocalStorageScript, key)
	if err != nil {
		return "", false, err
	}

	return browser.DecodeStorageItem(raw)
}

func (p *Page) URL() string {
	return p.page.URL()
}

type Element struct {
	locator playwright.Locator
}

func (e *Element) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := e.locator.Click(playwright.LocatorClickOptions{Timeout: timeoutMillis()}); err != nil {
		return fmt.Errorf("click element: %w", err)
	}

	return nil
}

func (e *Element) Fill(ctx context.Context, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := e.locator.Fill(value, playwright.LocatorFillOptions{Timeout: timeoutMillis()}); err != nil {
		return fmt.Errorf("fill element: %w", err)
	}

	return nil
}

// Attribute reports a missing attribute and an empty one the same way.
func (e *Element) Attribute(ctx context.Context, name string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	value, err := e.locator.GetAttribute(name, playwright.LocatorGetAttributeOptions{Timeout: timeoutMillis()})
	if err != nil {
		return "", false, fmt.Errorf("read attribute %s: %w", name, err)
	}

	return value, value != "", nil
}

func (e *Element) Text(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, err := e.locator.InnerText(playwright.LocatorInnerTextOptions{Timeout: timeoutMillis()})
	if err != nil {
		return "", fmt.Errorf("read element text: %w", err)
	}

	return text, nil
}

func timeoutMillis() *float64 {
	return playwright.Float(float64(actionTimeout.Milliseconds()))
}
