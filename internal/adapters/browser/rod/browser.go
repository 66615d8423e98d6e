// Package rod drives Chromium over CDP with go-rod.
package rod

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bnema/anyrouter-checkin/internal/adapters/browser"
	"github.com/bnema/anyrouter-checkin/internal/domain"
	"github.com/bnema/anyrouter-checkin/internal/ports"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

const actionTimeout = 10 * time.Second

var (
	_ ports.Browser = (*Browser)(nil)
	_ ports.Session = (*Session)(nil)
	_ ports.Page    = (*Page)(nil)
	_ ports.Element = (*Element)(nil)
)

var keys = map[string]input.Key{
	"Escape":    input.Escape,
	"Enter":     input.Enter,
	"Tab":       input.Tab,
	"Backspace": input.Backspace,
}

func keyFor(name string) (input.Key, error) {
	key, ok := keys[name]
	if !ok {
		return 0, fmt.Errorf("unsupported key %q", name)
	}

	return key, nil
}

type Browser struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	opts     browser.Options
	logger   *zap.Logger

	closeOnce sync.Once
	closeErr  error
}

// Launch starts a local Chromium and connects to it.
func Launch(ctx context.Context, opts browser.Options, logger *zap.Logger) (*Browser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	l := launcher.New().Context(ctx).Headless(opts.Headless).Leakless(true)
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chromium: %w", err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("connect to chromium: %w", err)
	}

	logger = logger.Named("rod")
	logger.Debug("browser launched", zap.Bool("headless", opts.Headless))

	return &Browser{launcher: l, browser: b, opts: opts, logger: logger}, nil
}

func (b *Browser) NewSession(ctx context.Context) (ports.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	incognito, err := b.browser.Context(ctx).Incognito()
	if err != nil {
		return nil, fmt.Errorf("create incognito context: %w", err)
	}
	page, err := incognito.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, errors.Join(fmt.Errorf("open page: %w", err), incognito.Close())
	}

	if err := (proto.EmulationSetLocaleOverride{Locale: b.opts.ResolvedLocale()}).Call(page); err != nil {
		b.logger.Debug("locale override rejected", zap.Error(err))
	}
	if b.opts.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: b.opts.UserAgent}); err != nil {
			return nil, errors.Join(fmt.Errorf("set user agent: %w", err), incognito.Close())
		}
	}

	return &Session{incognito: incognito, page: &Page{page: page}}, nil
}

func (b *Browser) Close() error {
	b.closeOnce.Do(func() {
		if err := b.browser.Close(); err != nil {
			b.closeErr = fmt.Errorf("close chromium: %w", err)
		}
		b.launcher.Kill()
		b.launcher.Cleanup()
	})

	return b.closeErr
}

type Session struct {
	incognito *rod.Browser
	page      *Page

	closeOnce sync.Once
	closeErr  error
}

func (s *Session) Page() ports.Page { return s.page }

func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		if err := s.incognito.Close(); err != nil {
			s.closeErr = fmt.Errorf("close incognito context: %w", err)
		}
	})

	return s.closeErr
}

type Page struct {
	page *rod.Page
}

func (p *Page) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	bounded := p.page.Context(ctx).Timeout(timeout)
	defer bounded.CancelTimeout()

	wait := bounded.WaitNavigation(proto.PageLifecycleEventNameNetworkAlmostIdle)
	if err := bounded.Navigate(url); err != nil {
		return fmt.Errorf("%w: goto %s: %w", domain.ErrNavigation, url, err)
	}
	// wait returns silently when the deadline fires.
	wait()

	return settleError(ctx, bounded.GetContext(), url, timeout)
}

// settleError tells a caller cancel apart from a page that never went idle.
func settleError(parent, bounded context.Context, url string, timeout time.Duration) error {
	if err := parent.Err(); err != nil {
		return err
	}
	if err := bounded.Err(); err != nil {
		return fmt.Errorf("%w: %s did not settle within %s: %w", domain.ErrNavigation, url, timeout, err)
	}

	return nil
}

func (p *Page) Query(ctx context.Context, selector string) (ports.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	found, el, err := p.page.Context(ctx).Has(selector)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}
	if !found {
		return nil, nil
	}

	return &Element{el: el}, nil
}

func (p *Page) QueryNth(ctx context.Context, selector string, index int) (ports.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	elements, err := p.page.Context(ctx).Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}
	if index < 0 || index >= len(elements) {
		return nil, nil
	}

	return &Element{el: elements[index]}, nil
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

	k, err := keyFor(key)
	if err != nil {
		return err
	}
	if err := p.page.Context(ctx).Keyboard.Press(k); err != nil {
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
	res, err := p.page.Context(ctx).Eval(script, normalized)
	if err != nil {
		return nil, fmt.Errorf("evaluate script: %w", err)
	}

	return browser.EncodeResult(res.Value.Val())
}

func (p *Page) LocalStorageItem(ctx context.Context, key string) (string, bool, error) {
	raw, err := p.Evaluate(ctx, browser.LocalStorageScript, key)
	if err != nil {
		return "", false, err
	}

	return browser.DecodeStorageItem(raw)
}

func (p *Page) URL() string {
	info, err := p.page.Info()
	if err != nil {
		return ""
	}

	return info.URL
}

type Element struct {
	el *rod.Element
}

// bounded returns the element under actionTimeout. Callers defer
// CancelTimeout on the result.
func (e *Element) bounded(ctx context.Context) *rod.Element {
	return e.el.Context(ctx).Timeout(actionTimeout)
}

func (e *Element) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	el := e.bounded(ctx)
	defer el.CancelTimeout()

	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click element: %w", err)
	}

	return nil
}

// Fill replaces the current value the way a user selecting all and typing would.
func (e *Element) Fill(ctx context.Context, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	el := e.bounded(ctx)
	defer el.CancelTimeout()

	if err := el.SelectAllText(); err != nil {
		return fmt.Errorf("select element text: %w", err)
	}
	if err := el.Input(value); err != nil {
		return fmt.Errorf("fill element: %w", err)
	}

	return nil
}

func (e *Element) Attribute(ctx context.Context, name string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	el := e.bounded(ctx)
	defer el.CancelTimeout()

	value, err := el.Attribute(name)
	if err != nil {
		return "", false, fmt.Errorf("read attribute %s: %w", name, err)
	}
	if value == nil {
		return "", false, nil
	}

	return *value, true, nil
}

func (e *Element) Text(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	el := e.bounded(ctx)
	defer el.CancelTimeout()

	text, err := el.Text()
	if err != nil {
		return "", fmt.Errorf("read element text: %w", err)
	}

	return text, nil
}
