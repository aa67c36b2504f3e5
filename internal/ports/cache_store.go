package ports

import (
	"context"

	"github.com/vnda/vnda-cli/internal/domain"
)

// CacheStore persists records per entity type. Lookup reports a miss with
// ok == false; a miss is never an error.
type CacheStore interface {
	Lookup(ctx context.Context, t domain.EntityType, field string, value any, required domain.Flags) (domain.Record, bool, error)
	Save(ctx context.Context, record domain.Record) error
	List(ctx context.Context, t domain.EntityType) ([]domain.Record, error)
}
