package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bnema/anyrouter-checkin/internal/domain"
	"github.com/bnema/anyrouter-checkin/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryLedgerSummarizesDay(t *testing.T) {
	reports := mocks.NewMockReportRepository(t)
	day := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	reports.EXPECT().List(mockAnyContext(), 0).Return([]domain.BatchReport{
		{RunID: "late", Timestamp: day.Add(2 * time.Hour), Outcomes: []domain.AccountOutcome{{Success: true}, {Success: true}}},
		{RunID: "early", Timestamp: day, Outcomes: []domain.AccountOutcome{{Success: true}, {Success: false}}},
		{RunID: "yesterday", Timestamp: day.Add(-24 * time.Hour), Outcomes: []domain.AccountOutcome{{Success: true}}},
	}, nil)

	ledger := NewHistoryLedger(reports, time.UTC)
	summary, err := ledger.Summary(context.Background(), "2026-03-01")

	require.NoError(t, err)
	assert.Equal(t, 2, summary.Runs)
	assert.Equal(t, 3, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, "late", summary.LastRunID)
	assert.True(t, summary.Completed)
}

func TestHistoryLedgerNotCompletedWithFailures(t *testing.T) {
	reports := mocks.NewMockReportRepository(t)
	reports.EXPECT().List(mockAnyContext(), 0).Return([]domain.BatchReport{
		{RunID: "r", Timestamp: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), Outcomes: []domain.AccountOutcome{{Success: false}}},
	}, nil)

	done, err := NewHistoryLedger(reports, time.UTC).Completed(context.Background(), "2026-03-01")

	require.NoError(t, err)
	assert.False(t, done)
}

func TestHistoryLedgerPropagatesListError(t *testing.T) {
	reports := mocks.NewMockReportRepository(t)
	reports.EXPECT().List(mockAnyContext(), 0).Return(nil, errors.New("disk gone"))

	_, err := NewHistoryLedger(reports, time.UTC).Completed(context.Background(), "2026-03-01")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "list report history: disk gone")
}
