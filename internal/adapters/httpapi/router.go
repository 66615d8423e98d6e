// Package httpapi exposes read-only run status over HTTP.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/bnema/anyrouter-checkin/internal/adapters/notify"
	"github.com/bnema/anyrouter-checkin/internal/domain"
	"github.com/bnema/anyrouter-checkin/internal/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const maxHistory = 100

var dayPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

type Handler struct {
	reports  ports.ReportRepository
	ledger   ports.RunLedger
	location *time.Location
	logger   *zap.Logger
}

func NewHandler(reports ports.ReportRepository, ledger ports.RunLedger, location *time.Location, logger *zap.Logger) *Handler {
	if location == nil {
		location = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Handler{reports: reports, ledger: ledger, location: location, logger: logger.Named("http")}
}

func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/report/latest", h.handleLatest)
	r.Get("/reports", h.handleHistory)
	r.Get("/runs/{day}", h.handleRunSummary)

	return r
}

func (h *Handler) handleLatest(w http.ResponseWriter, r *http.Request) {
	report, err := h.reports.Latest(r.Context())
	if errors.Is(err, domain.ErrReportNotFound) {
		h.writeError(w, http.StatusNotFound, "no report stored yet")
		return
	}
	if err != nil {
		h.logger.Error("load latest report", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "failed to load report")
		return
	}

	h.writeJSON(w, http.StatusOK, notify.NewEvent(report, h.location))
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			h.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxHistory)
	}

	reports, err := h.reports.List(r.Context(), limit)
	if err != nil {
		h.logger.Error("list reports", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "failed to list reports")
		return
	}

	events := make([]notify.Event, 0, len(reports))
	for _, report := range reports {
		events = append(events, notify.NewEvent(report, h.location))
	}
	h.writeJSON(w, http.StatusOK, events)
}

type runSummaryResponse struct {
	Day       string `json:"day"`
	Runs      int    `json:"runs"`
	Succeeded int    `json:"succeeded"`
	Failed    int    `json:"failed"`
	LastRunID string `json:"last_run_id,omitempty"`
	Completed bool   `json:"completed"`
}

func (h *Handler) handleRunSummary(w http.ResponseWriter, r *http.Request) {
	day := chi.URLParam(r, "day")
	if day == "today" {
		day = domain.DayKey(time.Now(), h.location)
	}
	if !dayPattern.MatchString(day) {
		h.writeError(w, http.StatusBadRequest, "day must be YYYY-MM-DD or today")
		return
	}
	if h.ledger == nil {
		h.writeError(w, http.StatusNotFound, "no run ledger configured")
		return
	}

	summary, err := h.ledger.Summary(r.Context(), day)
	if err != nil {
		h.logger.Error("read run summary", zap.String("day", day), zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "failed to read run summary")
		return
	}

	h.writeJSON(w, http.StatusOK, runSummaryResponse{
		Day:       summary.Day,
		Runs:      summary.Runs,
		Succeeded: summary.Succeeded,
		Failed:    summary.Failed,
		LastRunID: summary.LastRunID,
		Completed: summary.Completed,
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Warn("write response", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
