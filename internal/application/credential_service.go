package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/vnda/vnda-cli/internal/domain"
	"github.com/vnda/vnda-cli/internal/ports"
)

// CredentialService supplies login credentials from the store, asking the
// user once and persisting the answer when nothing is stored yet.
type CredentialService struct {
	store    ports.CredentialStore
	prompter ports.Prompter
	logger   zerolog.Logger
}

var _ ports.CredentialSource = (*CredentialService)(nil)

func NewCredentialService(store ports.CredentialStore, prompter ports.Prompter, logger zerolog.Logger) *CredentialService {
	return &CredentialService{
		store:    store,
		prompter: prompter,
		logger:   logger.With().Str("component", "credentials").Logger(),
	}
}

func (s *CredentialService) Credentials(ctx context.Context) (domain.Credentials, error) {
	creds, err := s.store.Load(ctx)
	if err == nil {
		return creds, nil
	}
	if !errors.Is(err, domain.ErrCredentialsNotFound) || s.prompter == nil {
		return domain.Credentials{}, err
	}

	return s.Update(ctx)
}

// Update prompts for new credentials and stores them, replacing any
// previous entry.
func (s *CredentialService) Update(ctx context.Context) (domain.Credentials, error) {
	if s.prompter == nil {
		return domain.Credentials{}, errors.New("no prompter configured")
	}

	username, err := s.prompter.Prompt(ctx, "Username", false)
	if err != nil {
		return domain.Credentials{}, fmt.Errorf("prompt username: %w", err)
	}
	password, err := s.prompter.Prompt(ctx, "Password", true)
	if err != nil {
		return domain.Credentials{}, fmt.Errorf("prompt password: %w", err)
	}

	creds := domain.Credentials{Username: strings.TrimSpace(username), Password: password}
	if !creds.Complete() {
		return domain.Credentials{}, fmt.Errorf("%w: username and password are required", domain.ErrCredentialsNotFound)
	}

	if err := s.store.Save(ctx, creds); err != nil {
		return domain.Credentials{}, fmt.Errorf("save credentials: %w", err)
	}

	s.logger.Info().Str("username", creds.Username).Msg("credentials saved")
	return creds, nil
}
