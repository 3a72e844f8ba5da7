// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"harvest/internal/domain/entity"
	"harvest/internal/domain/gateway"
)

// ProfileUsecase exposes the signed-in user's remote profile. Reads come
// from the session controller's cached copy; updates go to the gateway and
// then refresh the cache through the controller, which stays the sole owner
// of the in-memory profile.
type ProfileUsecase interface {
	Get(ctx context.Context) (*entity.Profile, error)
	Update(ctx context.Context, input *gateway.UpdateProfileInput) (*entity.Profile, error)
}
