package ports

import (
	"context"

	"github.com/bnema/anyrouter-checkin/internal/domain"
)

type ReportRepository interface {
	Save(ctx context.Context, report domain.BatchReport) error
	// Latest returns domain.ErrReportNotFound when no report was stored yet.
	Latest(ctx context.Context) (domain.BatchReport, error)
	// List returns stored reports newest first, at most limit when limit > 0.
	List(ctx context.Context, limit int) ([]domain.BatchReport, error)
}

type RunSummary struct {
	Day       string
	Runs      int
	Succeeded int
	Failed    int
	LastRunID string
	Completed bool
}

type RunLedger interface {
	RecordRun(ctx context.Context, day string, report domain.BatchReport) error
	Completed(ctx context.Context, day string) (bool, error)
	Summary(ctx context.Context, day string) (RunSummary, error)
}
