package application

import (
	"context"
	"fmt"
	"time"

	"github.com/bnema/anyrouter-checkin/internal/domain"
	"github.com/bnema/anyrouter-checkin/internal/ports"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AccountRunner interface {
	Run(ctx context.Context, account domain.Account) domain.AccountOutcome
}

type BatchOption func(*BatchOrchestrator)

func WithNotifier(notifier ports.Notifier) BatchOption {
	return func(b *BatchOrchestrator) { b.notifier = notifier }
}

func WithReportRepository(reports ports.ReportRepository) BatchOption {
	return func(b *BatchOrchestrator) { b.reports = reports }
}

func WithRunLedger(ledger ports.RunLedger) BatchOption {
	return func(b *BatchOrchestrator) { b.ledger = ledger }
}

func WithRunID(newRunID func() string) BatchOption {
	return func(b *BatchOrchestrator) { b.newRunID = newRunID }
}

func WithLocation(loc *time.Location) BatchOption {
	return func(b *BatchOrchestrator) { b.location = loc }
}

// WithProgress registers a callback invoked after each account finishes.
func WithProgress(fn func(done, total int, outcome domain.AccountOutcome)) BatchOption {
	return func(b *BatchOrchestrator) { b.progress = fn }
}

type BatchOrchestrator struct {
	runner   AccountRunner
	clock    ports.Clock
	pacing   time.Duration
	notifier ports.Notifier
	reports  ports.ReportRepository
	ledger   ports.RunLedger
	newRunID func() string
	location *time.Location
	progress func(done, total int, outcome domain.AccountOutcome)
	logger   *zap.Logger
}

func NewBatchOrchestrator(runner AccountRunner, clock ports.Clock, pacing time.Duration, logger *zap.Logger, opts ...BatchOption) *BatchOrchestrator {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	b := &BatchOrchestrator{
		runner:   runner,
		clock:    clock,
		pacing:   pacing,
		newRunID: uuid.NewString,
		location: time.Local,
		logger:   logger.Named("batch"),
	}
	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Run processes accounts one at a time in order and returns the report and
// whether every account succeeded. Every account yields exactly one outcome.
func (b *BatchOrchestrator) Run(ctx context.Context, accounts []domain.Account) (domain.BatchReport, bool) {
	runID := b.newRunID()
	logger := b.logger.With(zap.String("run_id", runID))
	logger.Info("batch started", zap.Int("accounts", len(accounts)))

	outcomes := make([]domain.AccountOutcome, 0, len(accounts))
	for i, account := range accounts {
		logger.Info("processing account", zap.Int("index", i+1), zap.Int("total", len(accounts)), zap.String("account", account.DisplayName()))

		outcome := b.runIsolated(ctx, account)
		outcomes = append(outcomes, outcome)
		if b.progress != nil {
			b.progress(i+1, len(accounts), outcome)
		}

		if i < len(accounts)-1 {
			if err := b.clock.Sleep(ctx, b.pacing); err != nil {
				logger.Warn("pacing interrupted", zap.Error(err))
			}
		}
	}

	report := domain.BatchReport{
		RunID:     runID,
		Outcomes:  outcomes,
		Timestamp: b.clock.Now(),
	}
	logger.Info("batch finished", zap.Int("succeeded", report.SuccessCount()), zap.Int("failed", report.FailureCount()))

	b.publish(ctx, logger, report)

	return report, report.AllSucceeded()
}

func (b *BatchOrchestrator) runIsolated(ctx context.Context, account domain.Account) (outcome domain.AccountOutcome) {
	defer func() {
		if recovered := recover(); recovered != nil {
			b.logger.Error("account processing panicked", zap.String("account", account.DisplayName()), zap.Any("panic", recovered))
			outcome = domain.AccountOutcome{
				Name:  account.DisplayName(),
				Error: fmt.Sprintf("unexpected fault: %v", recovered),
			}
		}
	}()

	outcome = b.runner.Run(ctx, account)
	if outcome.Name == "" {
		outcome.Name = account.DisplayName()
	}

	return outcome
}

// publish hands the report to the optional collaborators. Their failures are
// logged and never change the batch result.
func (b *BatchOrchestrator) publish(ctx context.Context, logger *zap.Logger, report domain.BatchReport) {
	if b.reports != nil {
		if err := b.reports.Save(ctx, report); err != nil {
			logger.Warn("save report", zap.Error(err))
		}
	}

	if b.ledger != nil {
		day := report.Day(b.location)
		if err := b.ledger.RecordRun(ctx, day, report); err != nil {
			logger.Warn("record run", zap.String("day", day), zap.Error(err))
		}
	}

	if b.notifier == nil {
		return
	}
	if !report.AnySucceeded() {
		logger.Info("no account succeeded, skipping notification")
		return
	}
	if err := b.notifier.Notify(ctx, report); err != nil {
		logger.Warn("send notification", zap.Error(err))
	}
}
