// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"
)

// ErrCredentialNotFound is returned when no credential is currently stored.
var ErrCredentialNotFound = errors.New("credential not found")

// CredentialRepository persists the single opaque bearer credential that
// proves an authenticated session to the remote API. At most one credential
// exists at a time; Store replaces any previous value.
type CredentialRepository interface {
	// Load retrieves the stored credential, or ErrCredentialNotFound.
	Load(ctx context.Context) (string, error)

	// Store persists the credential, replacing any previous one.
	Store(ctx context.Context, credential string) error

	// Delete removes the stored credential. Deleting an absent credential is not an error.
	Delete(ctx context.Context) error
}
