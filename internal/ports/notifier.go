package ports

import (
	"context"

	"github.com/bnema/anyrouter-checkin/internal/domain"
)

type Notifier interface {
	Notify(ctx context.Context, report domain.BatchReport) error
}
