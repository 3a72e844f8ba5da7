package impl

import (
	"context"
	"log/slog"

	"harvest/internal/domain/entity"
	domainerrors "harvest/internal/domain/errors"
	"harvest/internal/domain/gateway"
	"harvest/internal/usecase"

	"github.com/pkg/errors"
)

// profileService implements the ProfileUsecase interface. Reads serve the
// session controller's cached copy; updates go to the gateway and then
// refresh the cache through the controller, which remains the sole owner of
// the in-memory profile.
type profileService struct {
	session   usecase.SessionUsecase
	profileGW gateway.ProfileGateway
	logger    *slog.Logger
}

// NewProfileService is the constructor for profileService.
func NewProfileService(
	session usecase.SessionUsecase,
	profileGW gateway.ProfileGateway,
	logger *slog.Logger,
) usecase.ProfileUsecase {
	return &profileService{
		session:   session,
		profileGW: profileGW,
		logger:    logger,
	}
}

// Get returns the signed-in user's cached profile.
func (srv *profileService) Get(ctx context.Context) (*entity.Profile, error) {
	snapshot := srv.session.Snapshot()
	if snapshot.Profile == nil {
		return nil, errors.WithStack(domainerrors.ErrLoginRequired)
	}

	return snapshot.Profile, nil
}

// Update patches the remote profile and refreshes the cached copy.
func (srv *profileService) Update(ctx context.Context, input *gateway.UpdateProfileInput) (*entity.Profile, error) {
	if srv.session.Snapshot().Profile == nil {
		return nil, errors.WithStack(domainerrors.ErrLoginRequired)
	}

	updated, err := srv.profileGW.UpdateCurrent(ctx, input)
	if err != nil {
		srv.logger.Warn("Profile update failed", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to update profile")
	}

	// Keep the controller's cache authoritative; the update response is
	// returned to the caller either way.
	if err := srv.session.Refresh(ctx); err != nil {
		srv.logger.Warn("Failed to refresh session after profile update", slog.Any("error", err))
	}

	srv.logger.Info("Profile updated", slog.Int64("user_id", updated.Identity.ID))

	return updated, nil
}
