package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bnema/anyrouter-checkin/internal/adapters/notify"
	"github.com/bnema/anyrouter-checkin/internal/domain"
	"github.com/spf13/cobra"
)

func newReportCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show stored check-in reports",
	}

	cmd.AddCommand(
		newReportShowCmd(app),
		newReportHistoryCmd(app),
		newReportTodayCmd(app),
	)

	return cmd
}

func newReportShowCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the latest batch report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := app.reports.Latest(cmd.Context())
			if errors.Is(err, domain.ErrReportNotFound) {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "No check-in report stored yet. Run `arc run` first.")
				return err
			}
			if err != nil {
				return err
			}

			return writeReport(cmd, app, report, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newReportHistoryCmd(app *app) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent batch reports, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive, got %d", limit)
			}

			reports, err := app.reports.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if asJSON {
				events := make([]notify.Event, 0, len(reports))
				for _, report := range reports {
					events = append(events, notify.NewEvent(report, app.cfg.Location))
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(events)
			}

			rendered, err := app.historyRenderer(reports, app.renderOptions())
			if err != nil {
				return fmt.Errorf("render history: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of reports")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newReportTodayCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show today's run counters from the run ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			day := domain.DayKey(app.clock.Now(), app.cfg.Location)
			summary, err := app.ledger.Summary(cmd.Context(), day)
			if err != nil {
				return err
			}

			state := "pending"
			if summary.Completed {
				state = "completed"
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s, %d runs, %d succeeded, %d failed\n",
				summary.Day, state, summary.Runs, summary.Succeeded, summary.Failed)
			return err
		},
	}
}
