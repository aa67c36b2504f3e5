// Package chain stashes passwords in the first secret backend that accepts
// them and resolves references back through the backend named by their
// scheme.
package chain

import (
	"context"
	"errors"
	"fmt"

	filestore "github.com/vnda/vnda-cli/internal/adapters/secrets/file"
	passstore "github.com/vnda/vnda-cli/internal/adapters/secrets/pass"
	"github.com/vnda/vnda-cli/internal/domain"
	"github.com/vnda/vnda-cli/internal/ports"
)

type Store struct {
	backends []ports.SecretStore
}

var _ ports.Vault = (*Store)(nil)

var (
	errNoBackends  = errors.New("no secret backends configured")
	errNilBackend  = errors.New("secret backend is nil")
	errDupScheme   = errors.New("duplicate secret backend scheme")
	errUnknownKind = errors.New("no secret backend for scheme")
)

func NewStore(backends ...ports.SecretStore) *Store {
	store, err := NewStoreChecked(backends...)
	if err != nil {
		panic(err)
	}

	return store
}

// NewStoreChecked keeps backends in preference order. Each scheme may
// appear once.
func NewStoreChecked(backends ...ports.SecretStore) (*Store, error) {
	if len(backends) == 0 {
		return nil, errNoBackends
	}

	seen := make(map[string]struct{}, len(backends))
	for i, backend := range backends {
		if backend == nil {
			return nil, fmt.Errorf("%w at position %d", errNilBackend, i)
		}
		scheme := backend.Scheme()
		if _, ok := seen[scheme]; ok {
			return nil, fmt.Errorf("%w %q", errDupScheme, scheme)
		}
		seen[scheme] = struct{}{}
	}

	return &Store{backends: backends}, nil
}

// NewPassFirstWithFileFallback prefers the pass password manager and falls
// back to owner-only files under fileRoot.
func NewPassFirstWithFileFallback(fileRoot string) (*Store, error) {
	return NewStoreChecked(passstore.NewStore(), filestore.NewStore(fileRoot))
}

// Stash writes value to the first backend that accepts it and returns a
// reference naming that backend.
func (s *Store) Stash(ctx context.Context, key string, value string) (domain.SecretRef, error) {
	var errs []error
	for _, backend := range s.backends {
		err := backend.Put(ctx, key, value)
		if err == nil {
			return domain.SecretRef{Scheme: backend.Scheme(), Key: key}, nil
		}
		if shouldStop(err) {
			return domain.SecretRef{}, err
		}
		errs = append(errs, fmt.Errorf("%s backend put failed: %w", backend.Scheme(), err))
	}

	return domain.SecretRef{}, errors.Join(errs...)
}

func (s *Store) Reveal(ctx context.Context, ref domain.SecretRef) (string, error) {
	backend, err := s.backendFor(ref)
	if err != nil {
		return "", err
	}

	value, err := backend.Get(ctx, ref.Key)
	if err != nil {
		return "", fmt.Errorf("%s backend get failed: %w", ref.Scheme, err)
	}

	return value, nil
}

func (s *Store) Discard(ctx context.Context, ref domain.SecretRef) error {
	backend, err := s.backendFor(ref)
	if err != nil {
		return err
	}

	if err := backend.Delete(ctx, ref.Key); err != nil {
		return fmt.Errorf("%s backend delete failed: %w", ref.Scheme, err)
	}

	return nil
}

func (s *Store) backendFor(ref domain.SecretRef) (ports.SecretStore, error) {
	if ref.Scheme == "" || ref.Key == "" {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidSecretRef, ref.String())
	}

	for _, backend := range s.backends {
		if backend.Scheme() == ref.Scheme {
			return backend, nil
		}
	}

	return nil, fmt.Errorf("%w %q: %w", errUnknownKind, ref.Scheme, domain.ErrInvalidSecretRef)
}

func shouldStop(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
