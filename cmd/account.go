package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/bnema/anyrouter-checkin/internal/application"
	"github.com/spf13/cobra"
)

func newAccountCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage accounts",
	}

	cmd.AddCommand(
		newAccountListCmd(app),
		newAccountAddCmd(app),
	)

	return cmd
}

func newAccountListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			views, err := app.service.ListAccounts(cmd.Context())
			if err != nil {
				return err
			}
			if len(views) == 0 {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "No accounts in %s.\n", app.accountsPath)
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "NAME\tEMAIL\tPASSWORD\tBASE URL")
			for _, view := range views {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", view.Name, view.Email, view.PasswordSource, view.BaseURL)
			}

			return w.Flush()
		},
	}
}

func newAccountAddCmd(app *app) *cobra.Command {
	var addCmd application.AddAccountCommand
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an account and store its password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if passwordStdin {
				password, err := readPassword(cmd.InOrStdin())
				if err != nil {
					return err
				}
				addCmd.Password = password
			}

			if err := app.service.AddAccount(cmd.Context(), addCmd); err != nil {
				return err
			}

			where := "secret store"
			if addCmd.Inline {
				where = "account file"
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Added account %s (password kept in %s).\n", strings.TrimSpace(addCmd.Name), where)
			return err
		},
	}

	cmd.Flags().StringVar(&addCmd.Name, "name", "", "Account display name")
	cmd.Flags().StringVar(&addCmd.Email, "email", "", "Login email")
	cmd.Flags().StringVar(&addCmd.Password, "password", "", "Login password")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	cmd.Flags().StringVar(&addCmd.BaseURL, "base-url", "", "Per-account site URL")
	cmd.Flags().BoolVar(&addCmd.Inline, "inline", false, "Store the password in the account file")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	cmd.MarkFlagsMutuallyExclusive("password", "password-stdin")
	cmd.MarkFlagsOneRequired("password", "password-stdin")

	return cmd
}

func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password from stdin: %w", err)
	}

	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("read password from stdin: empty input")
	}

	return password, nil
}
