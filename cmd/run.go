package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/bnema/anyrouter-checkin/internal/adapters/notify"
	"github.com/bnema/anyrouter-checkin/internal/domain"
	"github.com/spf13/cobra"
)

func newRunCmd(app *app) *cobra.Command {
	var oncePerDay bool
	var asJSON bool
	var progress bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Check in every configured account once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			showProgress := progress || (!asJSON && app.isTerminal(os.Stderr.Fd()))

			var result batchResult
			var err error
			if showProgress {
				result, err = runWithProgress(cmd.Context(), cmd.ErrOrStderr(), app, oncePerDay)
			} else {
				result, err = app.runBatch(cmd.Context(), oncePerDay, nil)
			}
			if err != nil {
				return err
			}

			if result.skipped {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Check-in already completed today, nothing to do.")
				return err
			}

			if err := writeReport(cmd, app, result.report, asJSON); err != nil {
				return err
			}
			if !result.ok {
				return fmt.Errorf("%w: %d of %d", ErrBatchFailed, result.report.FailureCount(), len(result.report.Outcomes))
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&oncePerDay, "once-per-day", false, "Skip the run when today's batch already succeeded")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")
	cmd.Flags().BoolVar(&progress, "progress", false, "Show the progress spinner even when stderr is not a terminal")

	return cmd
}

func writeReport(cmd *cobra.Command, app *app, report domain.BatchReport, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(notify.NewEvent(report, app.cfg.Location))
	}

	rendered, err := app.reportRenderer([]domain.BatchReport{report}, app.renderOptions())
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}
