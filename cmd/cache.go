package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	resultsrender "github.com/vnda/vnda-cli/internal/adapters/render/results"
	"github.com/vnda/vnda-cli/internal/domain"
)

func newCacheCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the local record cache",
	}

	cmd.AddCommand(newCacheListCmd(app), newCacheShowCmd(app), newCachePathCmd(app))

	return cmd
}

func newCacheListCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:       "list <type>",
		Short:     "List cached records of one entity type",
		Args:      cobra.ExactArgs(1),
		ValidArgs: entityTypeArgs(),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := domain.ParseEntityType(args[0])
			if err != nil {
				return err
			}

			records, err := app.cache.List(cmd.Context(), t)
			if err != nil {
				return fmt.Errorf("list cache: %w", err)
			}

			if asJSON {
				items := make([]map[string]any, 0, len(records))
				for _, record := range records {
					items = append(items, record.Item())
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(items)
			}

			if len(records) == 0 {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "No cached %s records.\n", t)
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), resultsrender.RenderRecords(records, resultsrender.TableOptions{
				Now:    app.now(),
				MaxAge: app.settings.MaxAge,
			}))
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newCacheShowCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <type> <id>",
		Short: "Show one cached record, fresh or stale",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := domain.ParseEntityType(args[0])
			if err != nil {
				return err
			}
			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid id %q", args[1])
			}

			records, err := app.cache.List(cmd.Context(), t)
			if err != nil {
				return fmt.Errorf("list cache: %w", err)
			}

			for _, record := range records {
				if record.ID == id {
					return writeResultsOutput(cmd.OutOrStdout(), app, t, domain.ResultsFromRecord(record), asJSON)
				}
			}

			return fmt.Errorf("%s %d is not cached", t, id)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newCachePathCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "path [type]",
		Short: "Print the cache directory or the file for one entity type",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), app.cache.Dir())
				return err
			}

			t, err := domain.ParseEntityType(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), app.cache.Path(t))
			return err
		},
	}
}

func entityTypeArgs() []string {
	types := domain.EntityTypes()
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, string(t))
	}
	return names
}
