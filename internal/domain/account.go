package domain

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	DefaultBaseURL = "https://anyrouter.top"
	LoginPath      = "/login"
)

type Account struct {
	Name     string
	Email    string
	Password string
	// PasswordRef points to a secret-store entry used when Password is empty.
	PasswordRef string
	BaseURL     string
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.Email) == "" {
		return fmt.Errorf("account %q: email is required", a.Name)
	}
	if a.Password == "" && strings.TrimSpace(a.PasswordRef) == "" {
		return fmt.Errorf("account %q: password or password_ref is required", a.Name)
	}
	if a.BaseURL != "" {
		if err := validateBaseURL(a.BaseURL); err != nil {
			return fmt.Errorf("account %q: %w", a.Name, err)
		}
	}

	return nil
}

// ResolveBaseURL returns the per-account base URL, falling back to fallback and
// then DefaultBaseURL. The result never has a trailing slash.
func (a Account) ResolveBaseURL(fallback string) string {
	for _, candidate := range []string{a.BaseURL, fallback, DefaultBaseURL} {
		if trimmed := strings.TrimRight(strings.TrimSpace(candidate), "/"); trimmed != "" {
			return trimmed
		}
	}

	return DefaultBaseURL
}

func (a Account) LoginURL(fallback string) string {
	return a.ResolveBaseURL(fallback) + LoginPath
}

// DisplayName falls back to the email when no name was configured.
func (a Account) DisplayName() string {
	if name := strings.TrimSpace(a.Name); name != "" {
		return name
	}

	return strings.TrimSpace(a.Email)
}

func validateBaseURL(raw string) error {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("base url %q must use http or https", raw)
	}
	if parsed.Host == "" {
		return fmt.Errorf("base url %q has no host", raw)
	}

	return nil
}
