package application

import (
	"context"
	"time"

	"github.com/bnema/anyrouter-checkin/internal/domain"
	"github.com/bnema/anyrouter-checkin/internal/ports"
	"go.uber.org/zap"
)

// DailyGuard skips a batch when today's run already succeeded for every
// account.
type DailyGuard struct {
	ledger   ports.RunLedger
	clock    ports.Clock
	location *time.Location
	logger   *zap.Logger
}

func NewDailyGuard(ledger ports.RunLedger, clock ports.Clock, location *time.Location, logger *zap.Logger) *DailyGuard {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if location == nil {
		location = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &DailyGuard{ledger: ledger, clock: clock, location: location, logger: logger.Named("guard")}
}

func (g *DailyGuard) Today() string {
	return domain.DayKey(g.clock.Now(), g.location)
}

// ShouldRun reports false only when the ledger confirms today's run completed.
// Ledger errors let the run proceed.
func (g *DailyGuard) ShouldRun(ctx context.Context) bool {
	if g.ledger == nil {
		return true
	}

	day := g.Today()
	done, err := g.ledger.Completed(ctx, day)
	if err != nil {
		g.logger.Warn("read run ledger, running anyway", zap.String("day", day), zap.Error(err))
		return true
	}
	if done {
		g.logger.Info("check-in already completed today", zap.String("day", day))
		return false
	}

	return true
}
