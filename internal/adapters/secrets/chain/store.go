package chain

import (
	"context"
	"errors"
	"fmt"

	filestore "github.com/bnema/anyrouter-checkin/internal/adapters/secrets/file"
	passstore "github.com/bnema/anyrouter-checkin/internal/adapters/secrets/pass"
	"github.com/bnema/anyrouter-checkin/internal/domain"
	"github.com/bnema/anyrouter-checkin/internal/ports"
)

// Store tries its backends in order. Writes land in the first backend that
// accepts them, deletes hit every backend.
type Store struct {
	backends []ports.SecretStore
}

var _ ports.SecretStore = (*Store)(nil)

var errNoBackends = errors.New("secret store chain has no backends")

func NewStore(backends ...ports.SecretStore) (*Store, error) {
	filtered := make([]ports.SecretStore, 0, len(backends))
	for _, backend := range backends {
		if backend != nil {
			filtered = append(filtered, backend)
		}
	}
	if len(filtered) == 0 {
		return nil, errNoBackends
	}

	return &Store{backends: filtered}, nil
}

func NewPassFirstWithFileFallback(fileRoot string) (*Store, error) {
	return NewStore(passstore.NewStore(), filestore.NewStore(fileRoot))
}

func (s *Store) Put(ctx context.Context, ref string, value string) error {
	var errs []error
	for i, backend := range s.backends {
		err := backend.Put(ctx, ref, value)
		if err == nil {
			return nil
		}
		if stopsChain(err) {
			return err
		}
		errs = append(errs, fmt.Errorf("backend %d put: %w", i+1, err))
	}

	return errors.Join(errs...)
}

// Get returns the value from the first backend that has it. The error wraps
// domain.ErrSecretNotFound only when every backend reported it missing.
func (s *Store) Get(ctx context.Context, ref string) (string, error) {
	var errs []error
	allMissing := true
	for i, backend := range s.backends {
		value, err := backend.Get(ctx, ref)
		if err == nil {
			return value, nil
		}
		if stopsChain(err) {
			return "", err
		}
		if !errors.Is(err, domain.ErrSecretNotFound) {
			allMissing = false
		}
		errs = append(errs, fmt.Errorf("backend %d get: %w", i+1, err))
	}

	if allMissing {
		return "", fmt.Errorf("secret %q: %w", ref, domain.ErrSecretNotFound)
	}
	return "", errors.Join(errs...)
}

// Delete removes ref from every backend so a fallback copy cannot resurface.
// It fails only when no backend succeeded.
func (s *Store) Delete(ctx context.Context, ref string) error {
	var errs []error
	deleted := false
	for i, backend := range s.backends {
		err := backend.Delete(ctx, ref)
		if err == nil {
			deleted = true
			continue
		}
		if stopsChain(err) {
			return err
		}
		errs = append(errs, fmt.Errorf("backend %d delete: %w", i+1, err))
	}

	if deleted {
		return nil
	}
	return errors.Join(errs...)
}

func stopsChain(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
