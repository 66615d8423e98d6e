package application

import (
	"context"
	"fmt"

	"github.com/bnema/anyrouter-checkin/internal/domain"
	"github.com/bnema/anyrouter-checkin/internal/ports"
)

// FirstNonEmpty returns the accounts of the first source that yields any.
type FirstNonEmpty []ports.AccountSource

var _ ports.AccountSource = FirstNonEmpty(nil)

func (s FirstNonEmpty) List(ctx context.Context) ([]domain.Account, error) {
	for i, source := range s {
		if source == nil {
			continue
		}
		accounts, err := source.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("account source %d: %w", i+1, err)
		}
		if len(accounts) > 0 {
			return accounts, nil
		}
	}

	return nil, domain.ErrNoAccounts
}
