package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLoginCmd(app *app) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store credentials and verify them against the server",
		Long:  "Login asks for a username and password, writes them to the credentials file with owner-only permissions, and logs in once to confirm they work.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if !check {
				if _, err := app.credentials.Update(ctx); err != nil {
					return fmt.Errorf("update credentials: %w", err)
				}
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Credentials saved to %s\n", app.credentialPath)
			}

			creds, err := app.credentials.Credentials(ctx)
			if err != nil {
				return err
			}

			if err := app.session.Login(ctx); err != nil {
				return fmt.Errorf("login: %w", err)
			}
			defer app.close()

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", creds.Username)
			return err
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "Only verify the stored credentials")

	return cmd
}
