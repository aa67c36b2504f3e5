package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vnda/vnda-cli/internal/adapters/session"
	"github.com/vnda/vnda-cli/internal/version"
)

func newVersionCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !verbose {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), version.Version)
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s (protocol %d, client %s/%s)\n",
				version.Version, session.DefaultProtocol, session.DefaultClientName, session.DefaultClientVersion)
			return err
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Include protocol details")

	return cmd
}
