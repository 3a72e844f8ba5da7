// Package gateway defines the interfaces for the remote marketplace API.
// The application layer depends on these contracts, never on the HTTP
// implementations, so the session core is testable without a network.
package gateway

import (
	"context"

	"harvest/internal/domain/entity"
)

// RegisterInput carries the fields of a new account registration.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	IsFarmer bool
	IsBuyer  bool
	Phone    string
	Address  string
}

// AuthGateway is the remote authentication collaborator: it exchanges
// credentials for an opaque bearer token and creates new accounts.
type AuthGateway interface {
	// Login exchanges a username and password for a bearer credential.
	Login(ctx context.Context, username, password string) (string, error)

	// Register creates a new account. Registration never signs the caller
	// in; a separate Login is required afterwards.
	Register(ctx context.Context, input *RegisterInput) (*entity.Identity, error)
}
