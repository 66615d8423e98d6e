package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(wireOptions{})
}

func newRootCmdWith(opts wireOptions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "arc",
		Short:         "AnyRouter check-in (arc): log in and claim the daily bonus for every account",
		Long:          "arc drives a headless browser through the AnyRouter login page for each configured account, confirms the daily check-in, records the balance and reports the batch result.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp(opts)
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}
	rootCmd.PersistentPostRunE = func(_ *cobra.Command, _ []string) error {
		return app.Close()
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newAccountCmd(app),
		newPasswordCmd(app),
		newRunCmd(app),
		newDaemonCmd(app),
		newReportCmd(app),
		newConfigCmd(app),
		newBrowserCmd(app),
	)

	return rootCmd
}
