package notify

import (
	"time"

	"github.com/bnema/anyrouter-checkin/internal/domain"
)

// Event is the JSON document published for machine consumers.
type Event struct {
	RunID     string         `json:"run_id"`
	Day       string         `json:"day"`
	Timestamp time.Time      `json:"timestamp"`
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
	Outcomes  []EventOutcome `json:"outcomes"`
}

type EventOutcome struct {
	Name          string `json:"name"`
	Success       bool   `json:"success"`
	AlreadyDone   bool   `json:"already_done,omitempty"`
	StatusSummary string `json:"status_summary,omitempty"`
	Message       string `json:"message,omitempty"`
	Error         string `json:"error,omitempty"`
}

func NewEvent(report domain.BatchReport, loc *time.Location) Event {
	outcomes := make([]EventOutcome, 0, len(report.Outcomes))
	for _, outcome := range report.Outcomes {
		outcomes = append(outcomes, EventOutcome{
			Name:          outcome.Name,
			Success:       outcome.Success,
			AlreadyDone:   outcome.AlreadyDone,
			StatusSummary: outcome.StatusSummary,
			Message:       outcome.Message,
			Error:         outcome.Error,
		})
	}

	return Event{
		RunID:     report.RunID,
		Day:       report.Day(loc),
		Timestamp: report.Timestamp.UTC(),
		Succeeded: report.SuccessCount(),
		Failed:    report.FailureCount(),
		Outcomes:  outcomes,
	}
}
