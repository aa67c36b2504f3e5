package ports

import (
	"context"

	"github.com/vnda/vnda-cli/internal/domain"
)

type CredentialStore interface {
	Load(ctx context.Context) (domain.Credentials, error)
	Save(ctx context.Context, credentials domain.Credentials) error
}

// CredentialSource hands credentials to a session at login time.
type CredentialSource interface {
	Credentials(ctx context.Context) (domain.Credentials, error)
}

type Prompter interface {
	Prompt(ctx context.Context, label string, secret bool) (string, error)
}
