package ports

import (
	"context"
	"time"
)

// Page is the automation surface of one browser tab. Query methods return a
// nil Element and a nil error when nothing matches.
type Page interface {
	Navigate(ctx context.Context, url string, timeout time.Duration) error
	Query(ctx context.Context, selector string) (Element, error)
	// QueryTexts returns the visible text of every element matching selector in
	// document order.
	QueryTexts(ctx context.Context, selector string) ([]string, error)
	QueryNth(ctx context.Context, selector string, index int) (Element, error)
	PressKey(ctx context.Context, key string) error
	// Evaluate runs script in the page with arg and returns the JSON encoded
	// result. A null result is returned as "null".
	Evaluate(ctx context.Context, script string, arg any) ([]byte, error)
	LocalStorageItem(ctx context.Context, key string) (string, bool, error)
	URL() string
}

type Element interface {
	Click(ctx context.Context) error
	Fill(ctx context.Context, value string) error
	Attribute(ctx context.Context, name string) (string, bool, error)
	Text(ctx context.Context) (string, error)
}

// Session is one isolated browser context. Close releases it and is safe to
// call more than once.
type Session interface {
	Page() Page
	Close() error
}

type Browser interface {
	NewSession(ctx context.Context) (Session, error)
	Close() error
}
