package cmd

import (
	"fmt"

	"github.com/bnema/anyrouter-checkin/internal/application"
	"github.com/spf13/cobra"
)

func newPasswordCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Manage stored account passwords",
	}

	cmd.AddCommand(
		newPasswordSetCmd(app),
		newPasswordRemoveCmd(app),
	)

	return cmd
}

func newPasswordSetCmd(app *app) *cobra.Command {
	var value string
	var fromStdin bool

	cmd := &cobra.Command{
		Use:   "set <account>",
		Short: "Store a new password for an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if fromStdin {
				password, err := readPassword(cmd.InOrStdin())
				if err != nil {
					return err
				}
				value = password
			}

			if err := app.service.SetPassword(cmd.Context(), application.SetPasswordCommand{Name: args[0], Password: value}); err != nil {
				return err
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Stored password for %s at %s.\n", args[0], application.PasswordRef(args[0]))
			return err
		},
	}

	cmd.Flags().StringVar(&value, "value", "", "Password value")
	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "Read the password from stdin")
	cmd.MarkFlagsMutuallyExclusive("value", "stdin")
	cmd.MarkFlagsOneRequired("value", "stdin")

	return cmd
}

func newPasswordRemoveCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <account>",
		Aliases: []string{"remove"},
		Short:   "Delete the stored password of an account",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.service.RemovePassword(cmd.Context(), args[0]); err != nil {
				return err
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Removed stored password for %s.\n", args[0])
			return err
		},
	}
}
