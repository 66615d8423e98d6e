package cmd

import (
	"fmt"

	"github.com/bnema/anyrouter-checkin/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and create the configuration file",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "init",
			Short: "Write a starter config.toml",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				path := app.configPath()
				if err := config.WriteSample(path); err != nil {
					return err
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
				return err
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the config, accounts and secrets locations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "config:   %s\naccounts: %s\nsecrets:  %s\n",
					app.configPath(), app.accountsPath, app.secretsDir())
				return err
			},
		},
	)

	return cmd
}
