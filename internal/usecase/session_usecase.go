// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"harvest/internal/domain/entity"
)

// --- Input DTOs ---

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Username string `validate:"required,min=3"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
	IsFarmer bool
	IsBuyer  bool
	Phone    string
	Address  string
}

// SessionUsecase is the session controller contract: it owns the in-memory
// session state, runs the one-time bootstrap, and is the only component
// that mutates the cached profile.
type SessionUsecase interface {
	// Bootstrap runs the one-time session restore. It is idempotent: the
	// second and later calls do nothing and issue no gateway call. It
	// always terminates and never surfaces an error; every failure path
	// degrades to an anonymous session.
	Bootstrap(ctx context.Context)

	// Ready is closed once both the credential check and the minimum
	// splash timer have completed. Routing must not consult the gate
	// before then.
	Ready() <-chan struct{}

	// WaitReady blocks until Ready is closed or ctx ends.
	WaitReady(ctx context.Context) error

	// Login authenticates, persists the credential and loads the profile.
	// Concurrent calls are rejected while one is pending. On failure the
	// stored credential is cleared before the error is returned.
	Login(ctx context.Context, input *LoginInput) error

	// Register creates a new account. It never mutates session state on
	// success; the caller must log in separately.
	Register(ctx context.Context, input *RegisterInput) (*entity.Identity, error)

	// Logout clears the credential, purges the outgoing user's local
	// collections and resets the profile. The bootstrap latch is never
	// reset.
	Logout(ctx context.Context) error

	// Refresh re-runs the profile fetch for the current credential, used
	// after a remote profile update.
	Refresh(ctx context.Context) error

	// HasRole reports whether the current profile satisfies the role.
	HasRole(role entity.Role) bool

	// Snapshot returns an immutable view of the session state.
	Snapshot() entity.Session
}
