package api

import (
	"context"

	"harvest/internal/domain/entity"
	domainerrors "harvest/internal/domain/errors"
	"harvest/internal/domain/gateway"

	"github.com/go-playground/validator/v10"
)

type profileGateway struct {
	client   *Client
	validate *validator.Validate
}

// NewProfileGateway creates the remote profile gateway.
func NewProfileGateway(client *Client, validate *validator.Validate) gateway.ProfileGateway {
	return &profileGateway{
		client:   client,
		validate: validate,
	}
}

// identityPayload mirrors the API's nested user object. The role flags are
// pointers so a response that omits them is distinguishable from one that
// sets them to false.
type identityPayload struct {
	ID          int64  `json:"id" validate:"required"`
	Username    string `json:"username" validate:"required"`
	Email       string `json:"email"`
	IsFarmer    *bool  `json:"is_farmer" validate:"required"`
	IsBuyer     *bool  `json:"is_buyer" validate:"required"`
	IsStaff     *bool  `json:"is_staff" validate:"required"`
	IsSuperuser *bool  `json:"is_superuser" validate:"required"`
}

func (p identityPayload) toEntity() entity.Identity {
	return entity.Identity{
		ID:          p.ID,
		Username:    p.Username,
		Email:       p.Email,
		IsFarmer:    p.IsFarmer != nil && *p.IsFarmer,
		IsBuyer:     p.IsBuyer != nil && *p.IsBuyer,
		IsStaff:     p.IsStaff != nil && *p.IsStaff,
		IsSuperuser: p.IsSuperuser != nil && *p.IsSuperuser,
	}
}

type profilePayload struct {
	User              *identityPayload `json:"user" validate:"required"`
	Phone             string           `json:"phone_number"`
	Address           string           `json:"address"`
	ProfilePictureURL string           `json:"profile_picture_url"`
}

func (g *profileGateway) FetchCurrent(ctx context.Context) (*entity.Profile, error) {
	var payload profilePayload
	if err := g.client.get(ctx, "/users/profile/me/", &payload); err != nil {
		return nil, err
	}

	return g.toProfile(&payload)
}

type updateProfileRequest struct {
	Phone             *string `json:"phone_number,omitempty"`
	Address           *string `json:"address,omitempty"`
	ProfilePictureURL *string `json:"profile_picture_url,omitempty"`
}

func (g *profileGateway) UpdateCurrent(ctx context.Context, input *gateway.UpdateProfileInput) (*entity.Profile, error) {
	var payload profilePayload
	err := g.client.patch(ctx, "/users/profile/me/", updateProfileRequest{
		Phone:             input.Phone,
		Address:           input.Address,
		ProfilePictureURL: input.AvatarURL,
	}, &payload)
	if err != nil {
		return nil, err
	}

	return g.toProfile(&payload)
}

// toProfile builds the domain profile, refusing any payload that is missing
// identity or role fields. An authorization decision must never run against
// defaulted role flags.
func (g *profileGateway) toProfile(payload *profilePayload) (*entity.Profile, error) {
	if err := g.validate.Struct(payload); err != nil {
		return nil, domainerrors.ErrMalformedProfile.WithDetails(err.Error())
	}

	return &entity.Profile{
		Identity:  payload.User.toEntity(),
		Phone:     payload.Phone,
		Address:   payload.Address,
		AvatarURL: payload.ProfilePictureURL,
	}, nil
}
