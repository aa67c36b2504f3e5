package results

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/vnda/vnda-cli/internal/domain"
)

const descriptionWidth = 78

// hiddenKeys are bookkeeping fields that never reach the user; description
// is printed last on its own.
var hiddenKeys = map[string]struct{}{
	"id":          {},
	"flags":       {},
	"time":        {},
	"description": {},
}

type RenderOptions struct {
	Type domain.EntityType
	Now  time.Time
}

func renderView(results domain.Results, opts RenderOptions, s styles) string {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	lines := []string{
		s.title.Render(heading(opts.Type)),
		s.header.Render(summary(results)),
	}
	if results.Cached {
		lines = append(lines, s.cached.Render("from cache, saved "+humanize.RelTime(results.SavedAt, now, "ago", "from now")))
	}

	if len(results.Items) == 0 {
		lines = append(lines, s.empty.Render("No items returned."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, item := range results.Items {
		lines = append(lines, s.section.Render(renderItem(item, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderItem(item map[string]any, s styles) string {
	parts := []string{s.item.Render(itemTitle(item))}

	keys := make([]string, 0, len(item))
	for key := range item {
		if _, hidden := hiddenKeys[key]; hidden {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		parts = append(parts, s.key.Render(key+": ")+s.value.Render(formatValue(item[key])))
	}

	if description, ok := item["description"]; ok && description != nil && formatValue(description) != "" {
		parts = append(parts, s.key.Render("description:"), s.prose.Render(formatValue(description)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func heading(t domain.EntityType) string {
	switch t {
	case domain.EntityVN:
		return "Visual novels"
	case domain.EntityRelease:
		return "Releases"
	case domain.EntityProducer:
		return "Producers"
	default:
		return "Results"
	}
}

func summary(results domain.Results) string {
	text := fmt.Sprintf("results: %d", results.Num)
	if results.More {
		text += " (more available)"
	}
	return text
}

func itemTitle(item map[string]any) string {
	id := "?"
	if n, ok := domain.ItemID(item); ok {
		id = strconv.FormatInt(n, 10)
	}

	name := displayName(item)
	if name == "" {
		return "#" + id
	}
	return fmt.Sprintf("#%s %s", id, name)
}

func displayName(item map[string]any) string {
	for _, key := range []string{"title", "name"} {
		if value, ok := item[key].(string); ok && value != "" {
			return value
		}
	}
	return ""
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "-"
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < 1e15 {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	case []any:
		parts := make([]string, 0, len(v))
		for _, elem := range v {
			switch elem.(type) {
			case map[string]any, []any:
				return compactJSON(v)
			}
			parts = append(parts, formatValue(elem))
		}
		return strings.Join(parts, ", ")
	default:
		return compactJSON(v)
	}
}

func compactJSON(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprint(value)
	}
	return string(data)
}
