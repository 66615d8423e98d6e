package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bnema/anyrouter-checkin/internal/domain"
	"github.com/bnema/anyrouter-checkin/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sampleReport() domain.BatchReport {
	return domain.BatchReport{
		RunID:     "run-1",
		Timestamp: time.Date(2026, 3, 1, 1, 2, 3, 0, time.UTC),
		Outcomes: []domain.AccountOutcome{
			{Name: "main", Success: true, StatusSummary: "balance $25.00, used $2.00, bonus $1.00"},
			{Name: "alt", Success: true, AlreadyDone: true},
			{Name: "broken", Error: "login rejected: wrong password"},
		},
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	msg := Render(sampleReport(), time.UTC)

	assert.Equal(t, "anyrouter check-in 2026-03-01: 2/3 succeeded", msg.Subject)
	assert.Contains(t, msg.Body, "[ok] main: balance $25.00, used $2.00, bonus $1.00\n")
	assert.Contains(t, msg.Body, "[ok] alt (already checked in)\n")
	assert.Contains(t, msg.Body, "[fail] broken: login rejected: wrong password\n")
	assert.Contains(t, msg.Body, "2 succeeded, 1 failed")
}

func TestNewEvent(t *testing.T) {
	t.Parallel()

	event := NewEvent(sampleReport(), time.UTC)

	assert.Equal(t, "run-1", event.RunID)
	assert.Equal(t, "2026-03-01", event.Day)
	assert.Equal(t, 2, event.Succeeded)
	assert.Equal(t, 1, event.Failed)
	require.Len(t, event.Outcomes, 3)
	assert.True(t, event.Outcomes[1].AlreadyDone)
}

func TestFanoutContinuesAfterFailure(t *testing.T) {
	t.Parallel()

	report := sampleReport()
	first := mocks.NewMockNotifier(t)
	second := mocks.NewMockNotifier(t)
	first.EXPECT().Notify(mock.Anything, report).Return(errors.New("relay down")).Once()
	second.EXPECT().Notify(mock.Anything, report).Return(nil).Once()

	err := Fanout{{Name: "mail", Notifier: first}, {Name: "telegram", Notifier: second}}.Notify(context.Background(), report)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "notify mail: relay down")
}

func TestFanoutStopsOnCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	untouched := mocks.NewMockNotifier(t)

	err := Fanout{{Name: "mail", Notifier: untouched}}.Notify(ctx, sampleReport())

	require.ErrorIs(t, err, context.Canceled)
}
