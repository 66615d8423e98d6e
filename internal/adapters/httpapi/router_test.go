package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bnema/anyrouter-checkin/internal/adapters/notify"
	"github.com/bnema/anyrouter-checkin/internal/domain"
	"github.com/bnema/anyrouter-checkin/internal/ports"
	"github.com/bnema/anyrouter-checkin/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	return rec
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	router := NewRouter(NewHandler(mocks.NewMockReportRepository(t), nil, time.UTC, nil))
	rec := get(t, router, "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestLatestReport(t *testing.T) {
	t.Parallel()

	reports := mocks.NewMockReportRepository(t)
	reports.EXPECT().Latest(mock.Anything).Return(domain.BatchReport{
		RunID:     "run-3",
		Timestamp: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Outcomes:  []domain.AccountOutcome{{Name: "main", Success: true}},
	}, nil)

	rec := get(t, NewRouter(NewHandler(reports, nil, time.UTC, nil)), "/report/latest")

	require.Equal(t, http.StatusOK, rec.Code)
	var event notify.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &event))
	assert.Equal(t, "run-3", event.RunID)
	assert.Equal(t, "2026-03-01", event.Day)
	assert.Equal(t, 1, event.Succeeded)
}

func TestLatestReportNotFound(t *testing.T) {
	t.Parallel()

	reports := mocks.NewMockReportRepository(t)
	reports.EXPECT().Latest(mock.Anything).Return(domain.BatchReport{}, domain.ErrReportNotFound)

	rec := get(t, NewRouter(NewHandler(reports, nil, time.UTC, nil)), "/report/latest")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"no report stored yet"}`, rec.Body.String())
}

func TestLatestReportFailure(t *testing.T) {
	t.Parallel()

	reports := mocks.NewMockReportRepository(t)
	reports.EXPECT().Latest(mock.Anything).Return(domain.BatchReport{}, errors.New("corrupt file"))

	rec := get(t, NewRouter(NewHandler(reports, nil, time.UTC, nil)), "/report/latest")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "corrupt file")
}

func TestHistoryLimit(t *testing.T) {
	t.Parallel()

	reports := mocks.NewMockReportRepository(t)
	reports.EXPECT().List(mock.Anything, maxHistory).Return([]domain.BatchReport{{RunID: "a"}, {RunID: "b"}}, nil)
	router := NewRouter(NewHandler(reports, nil, time.UTC, nil))

	rec := get(t, router, "/reports?limit=5000")
	require.Equal(t, http.StatusOK, rec.Code)
	var events []notify.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	assert.Len(t, events, 2)

	assert.Equal(t, http.StatusBadRequest, get(t, router, "/reports?limit=-1").Code)
}

func TestRunSummary(t *testing.T) {
	t.Parallel()

	ledger := mocks.NewMockRunLedger(t)
	ledger.EXPECT().Summary(mock.Anything, "2026-03-01").Return(ports.RunSummary{
		Day: "2026-03-01", Runs: 2, Succeeded: 3, Failed: 1, LastRunID: "r2", Completed: true,
	}, nil)
	router := NewRouter(NewHandler(mocks.NewMockReportRepository(t), ledger, time.UTC, nil))

	rec := get(t, router, "/runs/2026-03-01")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"day":"2026-03-01","runs":2,"succeeded":3,"failed":1,"last_run_id":"r2","completed":true}`, rec.Body.String())

	assert.Equal(t, http.StatusBadRequest, get(t, router, "/runs/yesterday").Code)
}

func TestRunSummaryWithoutLedger(t *testing.T) {
	t.Parallel()

	router := NewRouter(NewHandler(mocks.NewMockReportRepository(t), nil, time.UTC, nil))

	assert.Equal(t, http.StatusNotFound, get(t, router, "/runs/today").Code)
}

func TestServeStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, listener, NewRouter(NewHandler(mocks.NewMockReportRepository(t), nil, time.UTC, nil)))
	}()

	resp, err := http.Get("http://" + listener.Addr().String() + "/healthz")
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
