// Package service defines interfaces for domain-level collaborators that
// are implemented by the infrastructure layer.
package service

import "context"

// CredentialVault owns the process-wide bearer credential: an in-memory
// copy kept write-through consistent with the persistent store. Every
// mutation of the credential in the application goes through the vault, so
// a stored credential and the in-memory copy can never disagree once an
// operation settles.
type CredentialVault interface {
	// Restore loads the persisted credential into memory, reporting whether
	// one was present.
	Restore(ctx context.Context) (string, bool, error)

	// Current returns the in-memory credential, if any.
	Current() (string, bool)

	// Store persists a credential and updates the in-memory copy.
	Store(ctx context.Context, credential string) error

	// Clear removes the credential from memory and from the persistent store.
	Clear(ctx context.Context) error

	// Invalidate is the auth-failure side effect: it clears the credential
	// from any call site, best effort, so a rejected credential is never
	// silently retried.
	Invalidate()
}
