package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/anyrouter-checkin/internal/domain"
	"github.com/bnema/anyrouter-checkin/internal/ports"
)

var _ ports.Notifier = (Fanout)(nil)

// Named pairs a notifier with a label used in error messages.
type Named struct {
	Name     string
	Notifier ports.Notifier
}

// Fanout delivers a report to every notifier. One failing channel does not stop
// the others.
type Fanout []Named

func (f Fanout) Notify(ctx context.Context, report domain.BatchReport) error {
	var errs []error
	for _, target := range f {
		if target.Notifier == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := target.Notifier.Notify(ctx, report); err != nil {
			errs = append(errs, fmt.Errorf("notify %s: %w", target.Name, err))
		}
	}

	return errors.Join(errs...)
}
