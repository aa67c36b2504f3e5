package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	resultsrender "github.com/vnda/vnda-cli/internal/adapters/render/results"
	"github.com/vnda/vnda-cli/internal/domain"
)

var errNotDirectID = errors.New("expected an identifier such as v17, r3 or p9")

type searchOptions struct {
	entity string
	flags  string
	asJSON bool
}

func (o *searchOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.entity, "type", string(domain.EntityVN), "Entity type for free-text queries (vn, release, producer)")
	cmd.Flags().StringVar(&o.flags, "flags", domain.FlagBasic, "Comma-separated detail flags to request")
	cmd.Flags().BoolVar(&o.asJSON, "json", false, "Render JSON output")
}

func newSearchCmd(app *app) *cobra.Command {
	opts := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the database by title or identifier",
		Long:  "Search runs a free-text query against the chosen entity type. Identifiers such as v17 are looked up directly and answered from the local cache when a fresh copy exists.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, app, strings.Join(args, " "), *opts)
		},
	}
	opts.bind(cmd)

	return cmd
}

func newGetCmd(app *app) *cobra.Command {
	opts := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Fetch one entry by identifier (v17, r3, p9)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := domain.ParseQuery(args[0], nil, domain.EntityVN)
			if err != nil {
				return err
			}
			if !q.Direct() {
				return fmt.Errorf("%q: %w", args[0], errNotDirectID)
			}
			return runSearch(cmd, app, args[0], *opts)
		},
	}
	opts.bind(cmd)

	return cmd
}

func runSearch(cmd *cobra.Command, app *app, raw string, opts searchOptions) error {
	entity, err := domain.ParseEntityType(opts.entity)
	if err != nil {
		return err
	}
	flags := domain.ParseFlags(opts.flags)

	q, err := domain.ParseQuery(raw, flags, entity)
	if err != nil {
		return err
	}

	var results domain.Results
	search := func(ctx context.Context) error {
		var err error
		results, err = app.search.Search(ctx, raw, flags, entity)
		return err
	}

	if opts.asJSON || !app.credentialsStored() {
		err = search(cmd.Context())
	} else {
		err = runWithSpinner(cmd.Context(), cmd.ErrOrStderr(), "Querying "+app.settings.Host+"...", search)
	}
	if err != nil {
		return err
	}

	return writeResultsOutput(cmd.OutOrStdout(), app, q.Type, results, opts.asJSON)
}

type resultsJSON struct {
	Num     int              `json:"num"`
	More    bool             `json:"more"`
	Items   []map[string]any `json:"items"`
	Cached  bool             `json:"cached"`
	SavedAt *time.Time       `json:"saved_at,omitempty"`
}

func writeResultsOutput(out io.Writer, app *app, t domain.EntityType, results domain.Results, asJSON bool) error {
	if asJSON {
		payload := resultsJSON{
			Num:    results.Num,
			More:   results.More,
			Items:  results.Items,
			Cached: results.Cached,
		}
		if payload.Items == nil {
			payload.Items = []map[string]any{}
		}
		if results.Cached {
			saved := results.SavedAt.UTC()
			payload.SavedAt = &saved
		}

		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}

	rendered, err := app.resultRenderer(results, resultsrender.RenderOptions{Type: t, Now: app.now()})
	if err != nil {
		return fmt.Errorf("render results: %w", err)
	}

	_, err = fmt.Fprintln(out, rendered)
	return err
}

// credentialsStored reports whether a login can proceed without prompting.
// The spinner stays off otherwise so the prompt is readable.
func (a *app) credentialsStored() bool {
	_, err := os.Stat(a.credentialPath)
	return err == nil
}
