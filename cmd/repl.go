package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

const replPrompt = "Search: "

func newReplCmd(app *app) *cobra.Command {
	opts := &searchOptions{}

	cmd := &cobra.Command{
		Use:     "repl",
		Aliases: []string{"shell"},
		Short:   "Read queries interactively over one connection",
		Long:    "Repl reads one query per line until end of input. The connection and login are kept across queries; failed queries are reported and the loop continues.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRepl(cmd, app, *opts)
		},
	}
	opts.bind(cmd)

	return cmd
}

func runRepl(cmd *cobra.Command, app *app, opts searchOptions) error {
	defer app.close()

	in := app.stdin()
	errOut := cmd.ErrOrStderr()

	for {
		if err := cmd.Context().Err(); err != nil {
			return err
		}

		_, _ = fmt.Fprint(errOut, replPrompt)
		line, err := in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read query: %w", err)
		}
		eof := errors.Is(err, io.EOF)

		query := strings.TrimSpace(line)
		if query != "" {
			if err := runSearch(cmd, app, query, opts); err != nil {
				_, _ = fmt.Fprintf(errOut, "Error: %v\n", err)
			}
		}

		if eof {
			_, _ = fmt.Fprintln(errOut)
			return nil
		}
	}
}
