package ports

import (
	"context"

	"github.com/bnema/anyrouter-checkin/internal/domain"
)

// AccountSource yields the accounts of one batch in their configured order.
type AccountSource interface {
	List(ctx context.Context) ([]domain.Account, error)
}

type AccountRepository interface {
	AccountSource
	Save(ctx context.Context, account domain.Account) error
}
