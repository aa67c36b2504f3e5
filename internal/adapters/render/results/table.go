package results

import (
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/vnda/vnda-cli/internal/domain"
)

type TableOptions struct {
	Now    time.Time
	MaxAge time.Duration
}

// RenderRecords lists cached records with their age and freshness.
func RenderRecords(records []domain.Record, opts TableOptions) string {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"ID", "Name", "Flags", "Saved", "State"})

	for _, record := range records {
		state := "fresh"
		if !record.ValidFor(nil, now, opts.MaxAge) {
			state = "stale"
		}

		saved := "never"
		if !record.SavedAt.IsZero() {
			saved = humanize.RelTime(record.SavedAt, now, "ago", "from now")
		}

		tw.AppendRow(table.Row{
			strconv.FormatInt(record.ID, 10),
			text.Trim(displayName(record.Fields), 48),
			record.Flags.String(),
			saved,
			state,
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	tw.AppendFooter(table.Row{"", humanize.Comma(int64(len(records))) + " records"})

	return tw.Render()
}
