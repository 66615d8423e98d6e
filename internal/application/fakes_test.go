package application

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/bnema/anyrouter-checkin/internal/ports"
	"github.com/stretchr/testify/mock"
)

func mockAnyContext() interface{} {
	return mock.Anything
}

type fakeClock struct {
	mu    sync.Mutex
	now   time.Time
	slept []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slept = append(c.slept, d)
	c.now = c.now.Add(d)
	return nil
}

func (c *fakeClock) sleeps(d time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for _, s := range c.slept {
		if s == d {
			count++
		}
	}
	return count
}

type fakeElement struct {
	name    string
	text    string
	clicks  int
	filled  string
	onClick func()
	failOn  string
}

func (e *fakeElement) Click(context.Context) error {
	if e.failOn == "click" {
		return errors.New("element detached")
	}
	e.clicks++
	if e.onClick != nil {
		e.onClick()
	}
	return nil
}

func (e *fakeElement) Fill(_ context.Context, value string) error {
	if e.failOn == "fill" {
		return errors.New("element not editable")
	}
	e.filled = value
	return nil
}

func (e *fakeElement) Attribute(context.Context, string) (string, bool, error) {
	return "", false, nil
}

func (e *fakeElement) Text(context.Context) (string, error) {
	return e.text, nil
}

// fakePage is a scripted page: selectors resolve through the elements map and
// text scans through the lists map.
type fakePage struct {
	mu           sync.Mutex
	url          string
	elements     map[string]*fakeElement
	lists        map[string][]*fakeElement
	storage      map[string]string
	navigateErr  error
	navigations  int
	keys         []string
	evaluate     func(script string, arg any) ([]byte, error)
	evaluations  []any
	queryErrs    map[string]error
	storageReads int
}

func newFakePage() *fakePage {
	return &fakePage{
		elements:  map[string]*fakeElement{},
		lists:     map[string][]*fakeElement{},
		storage:   map[string]string{},
		queryErrs: map[string]error{},
	}
}

var _ ports.Page = (*fakePage)(nil)

func (p *fakePage) Navigate(_ context.Context, url string, _ time.Duration) error {
	p.navigations++
	if p.navigateErr != nil {
		return p.navigateErr
	}
	p.url = url
	return nil
}

func (p *fakePage) Query(_ context.Context, selector string) (ports.Element, error) {
	if err := p.queryErrs[selector]; err != nil {
		return nil, err
	}
	if element, ok := p.elements[selector]; ok {
		return element, nil
	}
	return nil, nil
}

func (p *fakePage) QueryTexts(_ context.Context, selector string) ([]string, error) {
	texts := make([]string, 0, len(p.lists[selector]))
	for _, element := range p.lists[selector] {
		texts = append(texts, element.text)
	}
	return texts, nil
}

func (p *fakePage) QueryNth(_ context.Context, selector string, index int) (ports.Element, error) {
	list := p.lists[selector]
	if index < 0 || index >= len(list) {
		return nil, nil
	}
	return list[index], nil
}

func (p *fakePage) PressKey(_ context.Context, key string) error {
	p.keys = append(p.keys, key)
	return nil
}

func (p *fakePage) Evaluate(_ context.Context, script string, arg any) ([]byte, error) {
	p.mu.Lock()
	p.evaluations = append(p.evaluations, arg)
	p.mu.Unlock()
	if p.evaluate != nil {
		return p.evaluate(script, arg)
	}
	return []byte("null"), nil
}

func (p *fakePage) LocalStorageItem(_ context.Context, key string) (string, bool, error) {
	p.storageReads++
	value, ok := p.storage[key]
	return value, ok, nil
}

func (p *fakePage) URL() string {
	return p.url
}

// fetchResponder answers the in-page fetch script by request path and returns
// null for every other script.
func fetchResponder(responses map[string]string) func(string, any) ([]byte, error) {
	return func(script string, arg any) ([]byte, error) {
		if script != pageFetchScript {
			return []byte("null"), nil
		}
		request, ok := arg.(pageRequest)
		if !ok {
			return nil, errors.New("unexpected fetch argument")
		}
		for path, body := range responses {
			if strings.HasSuffix(request.URL, path) {
				return []byte(body), nil
			}
		}
		return []byte("null"), nil
	}
}

// loginPage returns a page with a visible credential form. Clicking submit
// stores the session record.
func loginPage(userRecord string) (*fakePage, *fakeElement, *fakeElement, *fakeElement) {
	page := newFakePage()
	username := &fakeElement{name: "username"}
	password := &fakeElement{name: "password"}
	submit := &fakeElement{name: "submit"}
	submit.onClick = func() {
		if userRecord != "" {
			page.storage[sessionUserKey] = userRecord
		}
	}
	page.elements[`input#username`] = username
	page.elements[`input#password`] = password
	page.elements[`button[type="submit"]`] = submit
	return page, username, password, submit
}

func decodeRequest(arg any) pageRequest {
	request, _ := arg.(pageRequest)
	return request
}
