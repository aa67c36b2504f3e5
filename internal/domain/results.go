package domain

import "time"

type Results struct {
	Num   int
	More  bool
	Items []map[string]any
	// Cached is set when the results were answered from the local cache;
	// SavedAt then carries the record's save time.
	Cached  bool
	SavedAt time.Time
}

func (r Results) Empty() bool {
	return r.Num == 0
}

func ResultsFromRecord(rec Record) Results {
	return Results{
		Num:     1,
		More:    false,
		Items:   []map[string]any{rec.Item()},
		Cached:  true,
		SavedAt: rec.SavedAt,
	}
}
