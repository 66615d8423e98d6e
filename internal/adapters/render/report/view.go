package report

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bnema/anyrouter-checkin/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

type RenderOptions struct {
	Location *time.Location
	// History selects the one-line-per-report layout.
	History bool
}

func (o RenderOptions) location() *time.Location {
	if o.Location == nil {
		return time.Local
	}
	return o.Location
}

func renderReports(reports []domain.BatchReport, opts RenderOptions, s styles) string {
	if len(reports) == 0 {
		return s.empty.Render("No check-in report stored yet.")
	}

	blocks := make([]string, 0, len(reports))
	for i, report := range reports {
		block := renderReport(report, opts, s)
		if i > 0 {
			block = s.section.Render(block)
		}
		blocks = append(blocks, block)
	}

	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

func renderReport(report domain.BatchReport, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("AnyRouter Check-in"),
		s.header.Render(fmt.Sprintf("run %s at %s", shortRunID(report.RunID), formatTimestamp(report.Timestamp, opts.location()))),
		lipgloss.JoinHorizontal(lipgloss.Top, renderProgressBar(successPercent(report), 24, s), " ", successLabel(report)),
	}

	if len(report.Outcomes) == 0 {
		lines = append(lines, s.empty.Render("No accounts were processed."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, outcome := range report.Outcomes {
		lines = append(lines, s.section.Render(renderOutcome(outcome, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderOutcome(outcome domain.AccountOutcome, s styles) string {
	title := lipgloss.JoinHorizontal(lipgloss.Top, s.account.Render(outcome.Name), " ", badge(outcome, s))
	parts := []string{title}

	switch {
	case !outcome.Success:
		parts = append(parts, s.detail.Render("error: "+fallback(outcome.Error, "unknown")))
	case outcome.StatusSummary != "":
		parts = append(parts, s.detail.Render(outcome.StatusSummary))
	default:
		parts = append(parts, s.detail.Render("status: n/a"))
	}
	if outcome.Message != "" && outcome.Success {
		parts = append(parts, s.detail.Render("reply: "+outcome.Message))
	}
	if outcome.Attempts > 1 {
		parts = append(parts, s.header.Render(fmt.Sprintf("login attempts: %d", outcome.Attempts)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderHistory(reports []domain.BatchReport, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Check-in History"),
		s.header.Render(fmt.Sprintf("runs: %d", len(reports))),
	}
	if len(reports) == 0 {
		lines = append(lines, s.empty.Render("No check-in report stored yet."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, report := range reports {
		state := s.ok.Render("ok")
		if !report.AllSucceeded() {
			state = s.failed.Render("partial")
			if !report.AnySucceeded() {
				state = s.failed.Render("failed")
			}
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			s.detail.Render(formatTimestamp(report.Timestamp, opts.location())),
			"  ",
			renderProgressBar(successPercent(report), 10, s),
			" ",
			successLabel(report),
			" ",
			state,
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func badge(outcome domain.AccountOutcome, s styles) string {
	switch {
	case !outcome.Success:
		return s.failed.Render("[failed]")
	case outcome.AlreadyDone:
		return s.already.Render("[already checked in]")
	default:
		return s.ok.Render("[checked in]")
	}
}

func successLabel(report domain.BatchReport) string {
	percent := successPercent(report)
	style := lipgloss.NewStyle().Foreground(interpolateColor(percent, 0, 100))

	return style.Render(fmt.Sprintf("%d/%d succeeded", report.SuccessCount(), len(report.Outcomes)))
}

func successPercent(report domain.BatchReport) float64 {
	if len(report.Outcomes) == 0 {
		return 0
	}

	return float64(report.SuccessCount()) / float64(len(report.Outcomes)) * 100
}

func renderProgressBar(percent float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	filled := int(math.Round(float64(width) * clampPercent(percent) / 100))
	filled = max(0, min(filled, width))

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func formatTimestamp(ts time.Time, loc *time.Location) string {
	if ts.IsZero() {
		return "unknown time"
	}

	return ts.In(loc).Format("2006-01-02 15:04")
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	if id == "" {
		return "-"
	}
	return id
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}

// interpolateColor maps value onto the 240..255 greyscale ramp.
func interpolateColor(value, lo, hi float64) lipgloss.Color {
	if hi == lo {
		return lipgloss.Color("255")
	}

	normalized := (value - lo) / (hi - lo)
	if normalized < 0 {
		normalized = 0
	}
	if normalized > 1 {
		normalized = 1
	}

	colorCode := int(240 + 15*normalized)

	return lipgloss.Color(fmt.Sprintf("%d", colorCode))
}
