package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/bnema/anyrouter-checkin/internal/domain"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type batchProgressMsg struct {
	done    int
	total   int
	outcome domain.AccountOutcome
}

type batchDoneMsg struct {
	result batchResult
	err    error
}

type batchSpinnerModel struct {
	spinner spinner.Model
	label   string
	run     tea.Cmd
	lines   []string
	result  batchResult
	err     error
	done    bool
}

func newBatchSpinnerModel(run tea.Cmd) batchSpinnerModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return batchSpinnerModel{
		spinner: s,
		label:   "Checking in...",
		run:     run,
	}
}

func (m batchSpinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.run)
}

func (m batchSpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case batchProgressMsg:
		state := "ok"
		if !msg.outcome.Success {
			state = "failed"
		}
		m.lines = append(m.lines, fmt.Sprintf("  %s: %s", msg.outcome.Name, state))
		m.label = fmt.Sprintf("Checking in... %d/%d accounts done", msg.done, msg.total)
		return m, nil
	case batchDoneMsg:
		m.done = true
		m.result = msg.result
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m batchSpinnerModel) View() string {
	if m.done {
		return ""
	}

	view := fmt.Sprintf("%s %s", m.spinner.View(), m.label)
	for _, line := range m.lines {
		view += "\n" + line
	}

	return view
}

func runWithProgress(ctx context.Context, output io.Writer, app *app, oncePerDay bool) (batchResult, error) {
	var p *tea.Program

	runCmd := func() tea.Msg {
		result, err := app.runBatch(ctx, oncePerDay, func(done, total int, outcome domain.AccountOutcome) {
			p.Send(batchProgressMsg{done: done, total: total, outcome: outcome})
		})
		return batchDoneMsg{result: result, err: err}
	}

	p = tea.NewProgram(
		newBatchSpinnerModel(runCmd),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return batchResult{}, err
	}

	result, ok := finalModel.(batchSpinnerModel)
	if !ok {
		return batchResult{}, fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}

	return result.result, result.err
}
