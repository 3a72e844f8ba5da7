package api

import (
	"context"

	"harvest/internal/domain/entity"
	domainerrors "harvest/internal/domain/errors"
	"harvest/internal/domain/gateway"
)

type authGateway struct {
	client *Client
}

// NewAuthGateway creates the remote authentication gateway.
func NewAuthGateway(client *Client) gateway.AuthGateway {
	return &authGateway{client: client}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Access string `json:"access"`
}

func (g *authGateway) Login(ctx context.Context, username, password string) (string, error) {
	var resp loginResponse
	err := g.client.post(ctx, "/users/login/", loginRequest{
		Username: username,
		Password: password,
	}, &resp)
	if err != nil {
		// A 401 on the login endpoint means the submitted credentials were
		// wrong, not that a stored credential expired.
		if domainerrors.IsAuth(err) {
			return "", domainerrors.ErrInvalidCredentials
		}

		return "", err
	}

	if resp.Access == "" {
		return "", domainerrors.ErrUnexpectedResponse.WithDetails("login response carried no access token")
	}

	return resp.Access, nil
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	IsFarmer bool   `json:"is_farmer"`
	IsBuyer  bool   `json:"is_buyer"`
	Phone    string `json:"phone_number,omitempty"`
	Address  string `json:"address,omitempty"`
}

func (g *authGateway) Register(ctx context.Context, input *gateway.RegisterInput) (*entity.Identity, error) {
	var resp identityPayload
	err := g.client.post(ctx, "/users/register/", registerRequest{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
		IsFarmer: input.IsFarmer,
		IsBuyer:  input.IsBuyer,
		Phone:    input.Phone,
		Address:  input.Address,
	}, &resp)
	if err != nil {
		return nil, err
	}

	identity := resp.toEntity()

	return &identity, nil
}
