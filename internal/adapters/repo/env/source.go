// Package env loads accounts from environment variables.
package env

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/bnema/anyrouter-checkin/internal/domain"
	"github.com/bnema/anyrouter-checkin/internal/ports"
)

const (
	AccountsVar = "ANYROUTE_ACCOUNTS"
	EmailVar    = "ANYROUTE_EMAIL"
	PasswordVar = "ANYROUTE_PASSWORD"
)

type accountEntry struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	PasswordRef string `json:"password_ref"`
	BaseURL     string `json:"base_url"`
}

// Source reads a JSON account array from ANYROUTE_ACCOUNTS, or a single
// account from ANYROUTE_EMAIL and ANYROUTE_PASSWORD when the array is unset.
type Source struct {
	lookup func(string) (string, bool)
}

var _ ports.AccountSource = (*Source)(nil)

func NewSource() *Source {
	return &Source{lookup: os.LookupEnv}
}

func NewSourceWithLookup(lookup func(string) (string, bool)) *Source {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return &Source{lookup: lookup}
}

func (s *Source) List(ctx context.Context) ([]domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if raw, ok := s.lookup(AccountsVar); ok && strings.TrimSpace(raw) != "" {
		return parseAccounts(raw)
	}

	email, _ := s.lookup(EmailVar)
	password, _ := s.lookup(PasswordVar)
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, nil
	}

	return []domain.Account{{Name: email, Email: email, Password: password}}, nil
}

func parseAccounts(raw string) ([]domain.Account, error) {
	var entries []accountEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("decode %s: %w", AccountsVar, err)
	}

	accounts := make([]domain.Account, 0, len(entries))
	for i, entry := range entries {
		email := strings.TrimSpace(entry.Email)
		if email == "" {
			email = strings.TrimSpace(entry.Username)
		}
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			name = fmt.Sprintf("account-%d", i+1)
		}

		account := domain.Account{
			Name:        name,
			Email:       email,
			Password:    entry.Password,
			PasswordRef: strings.TrimSpace(entry.PasswordRef),
			BaseURL:     strings.TrimSpace(entry.BaseURL),
		}
		if err := account.Validate(); err != nil {
			return nil, fmt.Errorf("decode %s entry %d: %w", AccountsVar, i+1, err)
		}
		accounts = append(accounts, account)
	}

	return accounts, nil
}
