package jsonl

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/tidwall/gjson"
	"github.com/vnda/vnda-cli/internal/domain"
)

const (
	keyID    = "id"
	keyFlags = "flags"
	keyTime  = "time"
)

var errMalformedLine = errors.New("malformed cache line")

// decodeRecord reads one cache line. Lines written by older clients carry
// flags either as a comma string or as an array and time as fractional epoch
// seconds; both shapes are accepted.
func decodeRecord(t domain.EntityType, line []byte) (domain.Record, error) {
	if !gjson.ValidBytes(line) {
		return domain.Record{}, fmt.Errorf("%w: invalid json", errMalformedLine)
	}

	parsed := gjson.ParseBytes(line)
	if !parsed.IsObject() {
		return domain.Record{}, fmt.Errorf("%w: not an object", errMalformedLine)
	}

	idValue := parsed.Get(keyID)
	if idValue.Type != gjson.Number || idValue.Float() != math.Trunc(idValue.Float()) {
		return domain.Record{}, fmt.Errorf("%w: id is not an integer", errMalformedLine)
	}

	var fields map[string]any
	if err := json.Unmarshal(line, &fields); err != nil {
		return domain.Record{}, fmt.Errorf("%w: %v", errMalformedLine, err)
	}
	delete(fields, keyID)
	delete(fields, keyFlags)
	delete(fields, keyTime)

	return domain.Record{
		Type:    t,
		ID:      idValue.Int(),
		Fields:  fields,
		Flags:   decodeFlags(parsed.Get(keyFlags)),
		SavedAt: decodeTime(parsed.Get(keyTime)),
	}, nil
}

func decodeFlags(value gjson.Result) domain.Flags {
	switch {
	case value.IsArray():
		tags := make([]string, 0, len(value.Array()))
		for _, tag := range value.Array() {
			tags = append(tags, tag.String())
		}
		return domain.NewFlags(tags...)
	case value.Type == gjson.String:
		return domain.ParseFlags(value.String())
	default:
		return nil
	}
}

// decodeTime returns the zero time when the stamp is missing, which always
// reads as stale.
func decodeTime(value gjson.Result) time.Time {
	if !value.Exists() {
		return time.Time{}
	}

	seconds := value.Float()
	whole, frac := math.Modf(seconds)
	return time.Unix(int64(whole), int64(frac*float64(time.Second)))
}

func encodeRecord(record domain.Record) ([]byte, error) {
	obj := make(map[string]any, len(record.Fields)+3)
	for key, value := range record.Fields {
		obj[key] = value
	}
	obj[keyID] = record.ID
	obj[keyFlags] = record.Flags.String()
	obj[keyTime] = float64(record.SavedAt.UnixNano()) / float64(time.Second)

	data, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("encode %s record %d: %w", record.Type, record.ID, err)
	}
	return data, nil
}

// matchesField compares a stored field against a lookup value. Numbers are
// compared numerically so 17 and 17.0 agree; everything else by its text.
func matchesField(line []byte, field string, value any) bool {
	stored := gjson.GetBytes(line, field)
	if !stored.Exists() {
		return false
	}

	if stored.Type == gjson.Number {
		if want, ok := domain.AsInt64(value); ok {
			return stored.Float() == float64(want)
		}
		if want, ok := value.(float64); ok {
			return stored.Float() == want
		}
	}

	return stored.String() == fmt.Sprint(value)
}
