package report

import (
	"testing"
	"time"

	"github.com/bnema/anyrouter-checkin/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() domain.BatchReport {
	return domain.BatchReport{
		RunID:     "0f3c9a6e-1111-2222-3333-444455556666",
		Timestamp: time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC),
		Outcomes: []domain.AccountOutcome{
			{Name: "main", Success: true, StatusSummary: "balance $25.00, used $2.00, bonus $1.00", Message: "签到成功", Attempts: 1},
			{Name: "alt", Success: true, AlreadyDone: true},
			{Name: "broken", Error: "login rejected", Attempts: 3},
		},
	}
}

func TestRenderReport(t *testing.T) {
	output, err := Render([]domain.BatchReport{sampleReport()}, RenderOptions{Location: time.UTC})

	require.NoError(t, err)
	assert.Contains(t, output, "AnyRouter Check-in")
	assert.Contains(t, output, "run 0f3c9a6e at 2026-03-01 08:30")
	assert.Contains(t, output, "2/3 succeeded")
	assert.Contains(t, output, "main")
	assert.Contains(t, output, "[checked in]")
	assert.Contains(t, output, "balance $25.00, used $2.00, bonus $1.00")
	assert.Contains(t, output, "reply: 签到成功")
	assert.Contains(t, output, "[already checked in]")
	assert.Contains(t, output, "[failed]")
	assert.Contains(t, output, "error: login rejected")
	assert.Contains(t, output, "login attempts: 3")
}

func TestRenderNoReports(t *testing.T) {
	output, err := Render(nil, RenderOptions{})

	require.NoError(t, err)
	assert.Contains(t, output, "No check-in report stored yet.")
}

func TestRenderEmptyBatch(t *testing.T) {
	output, err := Render([]domain.BatchReport{{RunID: "r"}}, RenderOptions{Location: time.UTC})

	require.NoError(t, err)
	assert.Contains(t, output, "0/0 succeeded")
	assert.Contains(t, output, "No accounts were processed.")
}

func TestRenderHistory(t *testing.T) {
	full := sampleReport()
	full.Outcomes = full.Outcomes[:2]
	none := domain.BatchReport{
		Timestamp: time.Date(2026, 2, 28, 8, 30, 0, 0, time.UTC),
		Outcomes:  []domain.AccountOutcome{{Name: "x"}},
	}

	output, err := RenderHistory([]domain.BatchReport{full, sampleReport(), none}, RenderOptions{Location: time.UTC})

	require.NoError(t, err)
	assert.Contains(t, output, "runs: 3")
	assert.Contains(t, output, "2/2 succeeded")
	assert.Contains(t, output, "partial")
	assert.Contains(t, output, "2026-02-28 08:30")
	assert.Contains(t, output, "failed")
}

func TestRenderProgressBar(t *testing.T) {
	s := newStyles()

	assert.Contains(t, renderProgressBar(50, 4, s), "==")
	assert.Equal(t, "", renderProgressBar(50, 0, s))
	assert.Equal(t, renderProgressBar(100, 4, s), renderProgressBar(250, 4, s))
}
