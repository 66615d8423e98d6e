package domain

import "time"

type AccountOutcome struct {
	Name          string
	Success       bool
	StatusSummary string
	// Message is the service's check-in reply when one was received.
	Message     string
	AlreadyDone bool
	Error       string
	// Attempts is the number of login attempts used.
	Attempts int
}

type BatchReport struct {
	RunID     string
	Outcomes  []AccountOutcome
	Timestamp time.Time
}

func (r BatchReport) SuccessCount() int {
	count := 0
	for _, outcome := range r.Outcomes {
		if outcome.Success {
			count++
		}
	}

	return count
}

func (r BatchReport) FailureCount() int {
	return len(r.Outcomes) - r.SuccessCount()
}

func (r BatchReport) AnySucceeded() bool {
	return r.SuccessCount() > 0
}

// AllSucceeded is false for an empty report.
func (r BatchReport) AllSucceeded() bool {
	return len(r.Outcomes) > 0 && r.FailureCount() == 0
}

// Day formats the report timestamp as a calendar day in loc.
func (r BatchReport) Day(loc *time.Location) string {
	return DayKey(r.Timestamp, loc)
}

func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}

	return t.In(loc).Format("2006-01-02")
}
