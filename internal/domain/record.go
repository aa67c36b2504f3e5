package domain

import (
	"fmt"
	"math"
	"time"
)

// DefaultMaxAge is the staleness window for cached records.
const DefaultMaxAge = 28 * 24 * time.Hour

// Record is one cached entity. Identity is (Type, ID).
type Record struct {
	Type    EntityType
	ID      int64
	Fields  map[string]any
	Flags   Flags
	SavedAt time.Time
}

// ValidFor reports whether the record can answer a query for required flags
// at now. Both flag coverage and age are checked; failing either is a miss.
func (r Record) ValidFor(required Flags, now time.Time, maxAge time.Duration) bool {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	if !r.Flags.Covers(required) {
		return false
	}

	return now.Sub(r.SavedAt) < maxAge
}

// Item returns the record as a result item: its fields plus the id.
func (r Record) Item() map[string]any {
	item := make(map[string]any, len(r.Fields)+1)
	for key, value := range r.Fields {
		item[key] = value
	}
	item["id"] = r.ID
	return item
}

// RecordFromItem turns a result item into a cache record stamped with flags
// and savedAt. Bookkeeping keys are never copied into Fields.
func RecordFromItem(t EntityType, item map[string]any, flags Flags, savedAt time.Time) (Record, error) {
	id, ok := ItemID(item)
	if !ok {
		return Record{}, fmt.Errorf("%w: item has no integer id", ErrInvalidRecord)
	}

	fields := make(map[string]any, len(item))
	for key, value := range item {
		switch key {
		case "id", "flags", "time":
			continue
		}
		fields[key] = value
	}

	return Record{
		Type:    t,
		ID:      id,
		Fields:  fields,
		Flags:   flags,
		SavedAt: savedAt,
	}, nil
}

// ItemID extracts an integer id from a decoded result item.
func ItemID(item map[string]any) (int64, bool) {
	return AsInt64(item["id"])
}

func AsInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int64(v), true
	case interface{ Int64() (int64, error) }:
		n, err := v.Int64()
		return n, err == nil
	default:
		return 0, false
	}
}
