// Package notify turns batch reports into outbound messages.
package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/bnema/anyrouter-checkin/internal/domain"
)

type Message struct {
	Subject string
	Body    string
}

// Render formats a report as a short plain-text message.
func Render(report domain.BatchReport, loc *time.Location) Message {
	if loc == nil {
		loc = time.Local
	}

	subject := fmt.Sprintf("anyrouter check-in %s: %d/%d succeeded",
		report.Day(loc), report.SuccessCount(), len(report.Outcomes))

	var body strings.Builder
	fmt.Fprintf(&body, "Run %s at %s\n\n", report.RunID, report.Timestamp.In(loc).Format("2006-01-02 15:04:05 MST"))
	for _, outcome := range report.Outcomes {
		body.WriteString(outcomeLine(outcome))
		body.WriteByte('\n')
	}
	fmt.Fprintf(&body, "\n%d succeeded, %d failed\n", report.SuccessCount(), report.FailureCount())

	return Message{Subject: subject, Body: body.String()}
}

func outcomeLine(outcome domain.AccountOutcome) string {
	if !outcome.Success {
		return fmt.Sprintf("[fail] %s: %s", outcome.Name, fallback(outcome.Error, "unknown error"))
	}

	line := "[ok] " + outcome.Name
	if outcome.AlreadyDone {
		line += " (already checked in)"
	}
	if outcome.StatusSummary != "" {
		line += ": " + outcome.StatusSummary
	}

	return line
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}

	return value
}
