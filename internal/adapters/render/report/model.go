package report

import (
	"errors"
	"io"

	"github.com/bnema/anyrouter-checkin/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

type renderReadyMsg struct{}

type model struct {
	reports []domain.BatchReport
	opts    RenderOptions
	styles  styles
	output  string
}

func newModel(reports []domain.BatchReport, opts RenderOptions) model {
	return model{
		reports: reports,
		opts:    opts,
		styles:  newStyles(),
	}
}

func (m model) Init() tea.Cmd {
	return func() tea.Msg {
		return renderReadyMsg{}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case renderReadyMsg:
		if m.opts.History {
			m.output = renderHistory(m.reports, m.opts, m.styles)
		} else {
			m.output = renderReports(m.reports, m.opts, m.styles)
		}
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m model) View() string {
	return m.output
}

// Render draws each report in full.
func Render(reports []domain.BatchReport, opts RenderOptions) (string, error) {
	opts.History = false
	return run(reports, opts)
}

// RenderHistory draws one summary line per report.
func RenderHistory(reports []domain.BatchReport, opts RenderOptions) (string, error) {
	opts.History = true
	return run(reports, opts)
}

func run(reports []domain.BatchReport, opts RenderOptions) (string, error) {
	p := tea.NewProgram(
		newModel(reports, opts),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	rendered, ok := finalModel.(model)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}

	return rendered.View(), nil
}
