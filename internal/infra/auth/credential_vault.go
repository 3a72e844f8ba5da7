// Package auth implements the credential vault and token inspection over
// the local persistent store.
package auth

import (
	"context"
	"log/slog"
	"sync"

	"harvest/internal/domain/repository"
	"harvest/internal/domain/service"
	"harvest/internal/errors"
)

type credentialVault struct {
	repo   repository.CredentialRepository
	logger *slog.Logger

	mu         sync.RWMutex
	credential string
	present    bool
}

// NewCredentialVault creates the process-wide credential vault backed by
// the persistent credential repository.
func NewCredentialVault(repo repository.CredentialRepository, logger *slog.Logger) service.CredentialVault {
	return &credentialVault{
		repo:   repo,
		logger: logger,
	}
}

func (v *credentialVault) Restore(ctx context.Context) (string, bool, error) {
	credential, err := v.repo.Load(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrCredentialNotFound) {
			v.set("", false)

			return "", false, nil
		}

		return "", false, errors.Wrap(err, "failed to restore credential")
	}

	v.set(credential, true)

	return credential, true, nil
}

func (v *credentialVault) Current() (string, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return v.credential, v.present
}

func (v *credentialVault) Store(ctx context.Context, credential string) error {
	if err := v.repo.Store(ctx, credential); err != nil {
		return errors.Wrap(err, "failed to store credential")
	}

	v.set(credential, true)

	return nil
}

func (v *credentialVault) Clear(ctx context.Context) error {
	// Drop the in-memory copy first so no caller picks up a credential
	// that is about to disappear.
	v.set("", false)

	if err := v.repo.Delete(ctx); err != nil {
		return errors.Wrap(err, "failed to clear credential")
	}

	return nil
}

func (v *credentialVault) Invalidate() {
	v.set("", false)

	// The persistent copy is removed best effort; the in-memory drop above
	// already stops the credential from being retried in this process.
	if err := v.repo.Delete(context.Background()); err != nil {
		v.logger.Warn("Failed to delete rejected credential from store", slog.Any("error", err))
	}
}

func (v *credentialVault) set(credential string, present bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.credential = credential
	v.present = present
}
