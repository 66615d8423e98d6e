package cmd

import (
	"fmt"

	browseradapter "github.com/bnema/anyrouter-checkin/internal/adapters/browser"
	playwrightbrowser "github.com/bnema/anyrouter-checkin/internal/adapters/browser/playwright"
	"github.com/spf13/cobra"
)

func newBrowserCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browser",
		Short: "Manage the automation browser",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "install",
		Short: "Download the playwright driver and Chromium",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if app.cfg.Engine != browseradapter.EnginePlaywright {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Engine %s downloads its browser on first launch.\n", app.cfg.Engine)
				return err
			}
			if err := playwrightbrowser.Install(); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Chromium installed.")
			return err
		},
	})

	return cmd
}
