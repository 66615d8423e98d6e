package application

import (
	"context"
	"fmt"
	"time"

	"github.com/bnema/anyrouter-checkin/internal/domain"
	"github.com/bnema/anyrouter-checkin/internal/ports"
)

var _ ports.RunLedger = (*HistoryLedger)(nil)

// HistoryLedger answers ledger queries from the local report history. It is
// used when no shared ledger is configured.
type HistoryLedger struct {
	reports  ports.ReportRepository
	location *time.Location
}

func NewHistoryLedger(reports ports.ReportRepository, location *time.Location) *HistoryLedger {
	if location == nil {
		location = time.Local
	}

	return &HistoryLedger{reports: reports, location: location}
}

// RecordRun is a no-op: the batch already saved the report to history.
func (l *HistoryLedger) RecordRun(ctx context.Context, _ string, _ domain.BatchReport) error {
	return ctx.Err()
}

func (l *HistoryLedger) Completed(ctx context.Context, day string) (bool, error) {
	summary, err := l.Summary(ctx, day)
	if err != nil {
		return false, err
	}

	return summary.Completed, nil
}

func (l *HistoryLedger) Summary(ctx context.Context, day string) (ports.RunSummary, error) {
	if err := ctx.Err(); err != nil {
		return ports.RunSummary{}, err
	}

	reports, err := l.reports.List(ctx, 0)
	if err != nil {
		return ports.RunSummary{}, fmt.Errorf("list report history: %w", err)
	}

	summary := ports.RunSummary{Day: day}
	// Reports are newest first, so the first match is the latest run.
	for _, report := range reports {
		if report.Day(l.location) != day {
			continue
		}
		if summary.Runs == 0 {
			summary.LastRunID = report.RunID
		}
		summary.Runs++
		summary.Succeeded += report.SuccessCount()
		summary.Failed += report.FailureCount()
		if report.AllSucceeded() {
			summary.Completed = true
		}
	}

	return summary, nil
}
