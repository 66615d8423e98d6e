package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/bnema/anyrouter-checkin/internal/domain"
	"github.com/bnema/anyrouter-checkin/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	ReportsPathKey = "reports.path"
	ReportsKeepKey = "reports.keep"

	reportsFile           = "reports.toml"
	reportTempFilePattern = ".reports-*.toml.tmp"
	defaultReportsKeep    = 30
)

// ReportRepository keeps the most recent batch reports in one TOML file.
type ReportRepository struct {
	path string
	keep int
	mu   *sync.RWMutex
}

var _ ports.ReportRepository = (*ReportRepository)(nil)

func NewReportRepository(cfg *viper.Viper) (*ReportRepository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	cfg.SetDefault(ReportsPathKey, filepath.Join(homeDir, ConfigDir, reportsFile))
	cfg.SetDefault(ReportsKeepKey, defaultReportsKeep)

	path := cfg.GetString(ReportsPathKey)
	if path == "" {
		return nil, errors.New("reports path is empty")
	}
	path, err = normalizePath(expandHome(path, homeDir))
	if err != nil {
		return nil, err
	}

	keep := cfg.GetInt(ReportsKeepKey)
	if keep <= 0 {
		keep = defaultReportsKeep
	}

	return &ReportRepository{path: path, keep: keep, mu: lockForPath(path)}, nil
}

func (r *ReportRepository) Save(ctx context.Context, report domain.BatchReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}

	file.Reports = append(file.Reports, toReportSchema(report))
	sort.SliceStable(file.Reports, func(i, j int) bool {
		return parseTime(file.Reports[i].Timestamp).After(parseTime(file.Reports[j].Timestamp))
	})
	if len(file.Reports) > r.keep {
		file.Reports = file.Reports[:r.keep]
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	file.applyDefaults()
	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode reports file: %w", err)
	}

	return writeFileAtomic(r.path, reportTempFilePattern, "reports", data)
}

func (r *ReportRepository) Latest(ctx context.Context) (domain.BatchReport, error) {
	reports, err := r.List(ctx, 1)
	if err != nil {
		return domain.BatchReport{}, err
	}
	if len(reports) == 0 {
		return domain.BatchReport{}, domain.ErrReportNotFound
	}

	return reports[0], nil
}

func (r *ReportRepository) List(ctx context.Context, limit int) ([]domain.BatchReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return nil, err
	}

	entries := file.Reports
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	reports := make([]domain.BatchReport, 0, len(entries))
	for _, entry := range entries {
		reports = append(reports, fromReportSchema(entry))
	}

	return reports, nil
}

func (r *ReportRepository) readSchema() (reportFileSchema, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return reportFileSchema{Version: currentReportSchemaVersion}, nil
		}
		return reportFileSchema{}, fmt.Errorf("read reports file: %w", err)
	}

	var file reportFileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return reportFileSchema{}, fmt.Errorf("decode reports file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return reportFileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func toReportSchema(report domain.BatchReport) reportSchema {
	outcomes := make([]outcomeSchema, 0, len(report.Outcomes))
	for _, outcome := range report.Outcomes {
		outcomes = append(outcomes, outcomeSchema{
			Name:          outcome.Name,
			Success:       outcome.Success,
			AlreadyDone:   outcome.AlreadyDone,
			Message:       outcome.Message,
			StatusSummary: outcome.StatusSummary,
			Error:         outcome.Error,
			Attempts:      outcome.Attempts,
		})
	}

	return reportSchema{
		RunID:     report.RunID,
		Timestamp: formatTime(report.Timestamp),
		Succeeded: report.SuccessCount(),
		Failed:    report.FailureCount(),
		Outcomes:  outcomes,
	}
}

func fromReportSchema(report reportSchema) domain.BatchReport {
	outcomes := make([]domain.AccountOutcome, 0, len(report.Outcomes))
	for _, outcome := range report.Outcomes {
		outcomes = append(outcomes, domain.AccountOutcome{
			Name:          outcome.Name,
			Success:       outcome.Success,
			AlreadyDone:   outcome.AlreadyDone,
			Message:       outcome.Message,
			StatusSummary: outcome.StatusSummary,
			Error:         outcome.Error,
			Attempts:      outcome.Attempts,
		})
	}

	return domain.BatchReport{
		RunID:     report.RunID,
		Timestamp: parseTime(report.Timestamp),
		Outcomes:  outcomes,
	}
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}

	return parsed
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.UTC().Format(time.RFC3339Nano)
}
