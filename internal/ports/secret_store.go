package ports

import (
	"context"

	"github.com/vnda/vnda-cli/internal/domain"
)

// SecretStore is one backend able to hold a password outside the
// credentials file. Scheme is the prefix its references carry.
type SecretStore interface {
	Scheme() string
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}

// Vault stashes passwords and hands back a reference that later resolves
// to the same value.
type Vault interface {
	Stash(ctx context.Context, key string, value string) (domain.SecretRef, error)
	Reveal(ctx context.Context, ref domain.SecretRef) (string, error)
	Discard(ctx context.Context, ref domain.SecretRef) error
}
