package cmd

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	browseradapter "github.com/bnema/anyrouter-checkin/internal/adapters/browser"
	"github.com/bnema/anyrouter-checkin/internal/ports"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

// fakeSite scripts the pages handed out by fakeBrowser. Login succeeds when
// sessionRecord is set; API paths answer with the mapped JSON bodies.
type fakeSite struct {
	mu            sync.Mutex
	sessionRecord string
	responses     map[string]string
	requests      []string
	sessions      int
	closedBrowser bool
}

func acceptingSite() *fakeSite {
	return &fakeSite{
		sessionRecord: `{"id": 42, "username": "main"}`,
		responses: map[string]string{
			"/api/user/sign_in": `{"success": true, "message": "签到成功"}`,
			"/api/user/self":    `{"success": true, "data": {"quota": 12500000, "used_quota": 1000000, "bonus_quota": 500000}}`,
		},
	}
}

func (s *fakeSite) opener() browserOpener {
	return func(context.Context) (ports.Browser, error) {
		return &fakeBrowser{site: s}, nil
	}
}

func (s *fakeSite) requested() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

type fakeBrowser struct {
	site *fakeSite
}

var _ ports.Browser = (*fakeBrowser)(nil)

func (b *fakeBrowser) NewSession(context.Context) (ports.Session, error) {
	b.site.mu.Lock()
	b.site.sessions++
	b.site.mu.Unlock()

	return &fakeSession{page: newFakePage(b.site)}, nil
}

func (b *fakeBrowser) Close() error {
	b.site.mu.Lock()
	defer b.site.mu.Unlock()
	b.site.closedBrowser = true
	return nil
}

type fakeSession struct {
	page *fakePage
}

func (s *fakeSession) Page() ports.Page { return s.page }

func (s *fakeSession) Close() error { return nil }

type fakeElement struct {
	onClick func()
}

func (e *fakeElement) Click(context.Context) error {
	if e.onClick != nil {
		e.onClick()
	}
	return nil
}

func (e *fakeElement) Fill(context.Context, string) error { return nil }

func (e *fakeElement) Attribute(context.Context, string) (string, bool, error) {
	return "", false, nil
}

func (e *fakeElement) Text(context.Context) (string, error) { return "", nil }

type fakePage struct {
	site     *fakeSite
	url      string
	elements map[string]*fakeElement
	storage  map[string]string
}

var _ ports.Page = (*fakePage)(nil)

func newFakePage(site *fakeSite) *fakePage {
	page := &fakePage{
		site:    site,
		storage: map[string]string{},
	}
	submit := &fakeElement{onClick: func() {
		if site.sessionRecord != "" {
			page.storage["user"] = site.sessionRecord
		}
	}}
	page.elements = map[string]*fakeElement{
		`input#username`:        {},
		`input#password`:        {},
		`button[type="submit"]`: submit,
	}

	return page
}

func (p *fakePage) Navigate(_ context.Context, url string, _ time.Duration) error {
	p.url = url
	return nil
}

func (p *fakePage) Query(_ context.Context, selector string) (ports.Element, error) {
	if element, ok := p.elements[selector]; ok {
		return element, nil
	}
	return nil, nil
}

func (p *fakePage) QueryTexts(context.Context, string) ([]string, error) { return nil, nil }

func (p *fakePage) QueryNth(context.Context, string, int) (ports.Element, error) { return nil, nil }

func (p *fakePage) PressKey(context.Context, string) error { return nil }

// Evaluate answers the in-page fetch by request path. Scripts without a url
// argument evaluate to null.
func (p *fakePage) Evaluate(_ context.Context, _ string, arg any) ([]byte, error) {
	normalized, err := browseradapter.NormalizeArg(arg)
	if err != nil {
		return nil, err
	}
	request, ok := normalized.(map[string]any)
	if !ok {
		return []byte("null"), nil
	}
	url, _ := request["url"].(string)
	if url == "" {
		return []byte("null"), nil
	}

	p.site.mu.Lock()
	defer p.site.mu.Unlock()
	p.site.requests = append(p.site.requests, url)
	for path, body := range p.site.responses {
		if strings.HasSuffix(url, path) {
			return []byte(body), nil
		}
	}

	return nil, errors.New("connection refused")
}

func (p *fakePage) LocalStorageItem(_ context.Context, key string) (string, bool, error) {
	value, ok := p.storage[key]
	return value, ok, nil
}

func (p *fakePage) URL() string { return p.url }
