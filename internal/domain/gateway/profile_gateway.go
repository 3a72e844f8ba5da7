// Package gateway defines the interfaces for the remote marketplace API.
package gateway

import (
	"context"

	"harvest/internal/domain/entity"
)

// UpdateProfileInput carries the mutable profile fields. Nil pointers leave
// the remote value untouched.
type UpdateProfileInput struct {
	Phone     *string
	Address   *string
	AvatarURL *string
}

// ProfileGateway is the remote profile collaborator. The bearer credential
// is attached by the transport; a rejected credential surfaces as an auth
// error and is invalidated as a side effect.
type ProfileGateway interface {
	// FetchCurrent retrieves the signed-in user's profile. A response
	// missing identity or role fields fails construction with a server
	// error rather than defaulting silently.
	FetchCurrent(ctx context.Context) (*entity.Profile, error)

	// UpdateCurrent patches the signed-in user's profile and returns the
	// updated copy.
	UpdateCurrent(ctx context.Context, input *UpdateProfileInput) (*entity.Profile, error)
}
