package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Filter selects records on the remote side: either a direct id or a
// free-text search.
type Filter struct {
	ID   int64
	Text string
}

func (f Filter) Direct() bool {
	return f.ID > 0
}

type GetRequest struct {
	Type   EntityType
	Flags  Flags
	Filter Filter
}

type Query struct {
	Type   EntityType
	Flags  Flags
	Filter Filter
}

// ParseQuery interprets a user query. "v17", "r3" and "p9" are direct id
// lookups: the prefix picks the entity type and the details flag is added.
// Anything else is a free-text search against fallback.
func ParseQuery(raw string, flags Flags, fallback EntityType) (Query, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Query{}, fmt.Errorf("%w: empty query", ErrInvalidQuery)
	}
	if len(flags) == 0 {
		flags = NewFlags(FlagBasic)
	}

	if t, id, ok := parseDirectID(text); ok {
		return Query{
			Type:   t,
			Flags:  flags.With(FlagDetails),
			Filter: Filter{ID: id},
		}, nil
	}

	if !fallback.Valid() {
		return Query{}, fmt.Errorf("%w: %q", ErrUnknownEntityType, fallback)
	}

	return Query{Type: fallback, Flags: flags, Filter: Filter{Text: text}}, nil
}

func (q Query) Direct() bool {
	return q.Filter.Direct()
}

func (q Query) Request() GetRequest {
	return GetRequest{Type: q.Type, Flags: q.Flags, Filter: q.Filter}
}

func parseDirectID(text string) (EntityType, int64, bool) {
	if len(text) < 2 {
		return "", 0, false
	}
	t, ok := entityTypeForPrefix(text[0])
	if !ok {
		return "", 0, false
	}
	digits := text[1:]
	for _, r := range digits {
		if r < '0' || r > '9' {
			return "", 0, false
		}
	}
	id, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || id <= 0 {
		return "", 0, false
	}

	return t, id, true
}
