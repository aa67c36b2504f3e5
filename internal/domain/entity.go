package domain

import (
	"fmt"
	"strings"
)

type EntityType string

const (
	EntityVN       EntityType = "vn"
	EntityRelease  EntityType = "release"
	EntityProducer EntityType = "producer"
)

func EntityTypes() []EntityType {
	return []EntityType{EntityVN, EntityRelease, EntityProducer}
}

func (t EntityType) Valid() bool {
	switch t {
	case EntityVN, EntityRelease, EntityProducer:
		return true
	default:
		return false
	}
}

func ParseEntityType(raw string) (EntityType, error) {
	t := EntityType(strings.ToLower(strings.TrimSpace(raw)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownEntityType, raw)
	}

	return t, nil
}

// entityTypeForPrefix maps the one-letter identifier prefix (v17, r3, p9)
// to its entity type.
func entityTypeForPrefix(prefix byte) (EntityType, bool) {
	switch prefix {
	case 'v':
		return EntityVN, true
	case 'r':
		return EntityRelease, true
	case 'p':
		return EntityProducer, true
	default:
		return "", false
	}
}
