package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/anyrouter-checkin/internal/adapters/httpapi"
	"github.com/bnema/anyrouter-checkin/internal/adapters/schedule"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const daemonStopTimeout = 2 * time.Minute

func newDaemonCmd(app *app) *cobra.Command {
	var cronSpec string
	var listen string
	var runNow bool

	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run check-ins on a schedule and serve run status over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cronSpec == "" {
				cronSpec = app.cfg.Schedule
			}
			if listen == "" {
				listen = app.cfg.HTTPListen
			}

			return runDaemon(cmd.Context(), app, cronSpec, listen, runNow)
		},
	}

	cmd.Flags().StringVar(&cronSpec, "cron", "", "Cron expression (default from schedule.cron)")
	cmd.Flags().StringVar(&listen, "listen", "", "HTTP listen address, \"off\" disables the status server")
	cmd.Flags().BoolVar(&runNow, "run-now", false, "Run one batch immediately after startup")

	return cmd
}

func runDaemon(ctx context.Context, app *app, cronSpec, listen string, runNow bool) error {
	logger := app.logger.Named("daemon")

	job := func(jobCtx context.Context) {
		result, err := app.runBatch(jobCtx, true, nil)
		switch {
		case err != nil:
			logger.Error("scheduled batch failed", zap.Error(err))
		case result.skipped:
			logger.Info("scheduled batch skipped, already completed today")
		default:
			logger.Info("scheduled batch finished",
				zap.String("run_id", result.report.RunID),
				zap.Int("succeeded", result.report.SuccessCount()),
				zap.Int("failed", result.report.FailureCount()),
			)
		}
	}

	scheduler, err := schedule.New(cronSpec, app.cfg.Location, job, app.logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var httpErr chan error
	if listen != "off" {
		httpErr = make(chan error, 1)
		router := httpapi.NewRouter(httpapi.NewHandler(app.reports, app.ledger, app.cfg.Location, app.logger))
		go func() { httpErr <- httpapi.Serve(ctx, listen, router) }()
		logger.Info("status server listening", zap.String("addr", listen))
	}

	scheduler.Start()
	if runNow {
		go scheduler.RunNow()
	}

	var serveErr error
	serverDone := false
	select {
	case <-ctx.Done():
	case serveErr = <-httpErr:
		serverDone = true
	}
	cancel()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), daemonStopTimeout)
	defer stopCancel()
	stopErr := scheduler.Stop(stopCtx)

	if httpErr != nil && !serverDone {
		serveErr = <-httpErr
	}
	if serveErr != nil {
		serveErr = fmt.Errorf("status server: %w", serveErr)
	}

	return errors.Join(serveErr, stopErr)
}
