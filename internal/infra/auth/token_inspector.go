package auth

import (
	"time"

	"harvest/internal/domain/service"
	"harvest/internal/errors"

	"github.com/golang-jwt/jwt/v5"
)

type tokenInspector struct {
	parser *jwt.Parser
	now    func() time.Time
}

// NewTokenInspector creates an inspector that decodes bearer credentials
// without verifying them. The remote API remains the only authority on
// whether a credential is actually valid.
func NewTokenInspector() service.TokenInspector {
	return &tokenInspector{
		parser: jwt.NewParser(),
		now:    time.Now,
	}
}

func (i *tokenInspector) Inspect(credential string) (*service.TokenInfo, error) {
	claims := jwt.MapClaims{}
	if _, _, err := i.parser.ParseUnverified(credential, claims); err != nil {
		return nil, errors.Wrap(err, "failed to decode credential")
	}

	info := &service.TokenInfo{}

	if subject, err := claims.GetSubject(); err == nil {
		info.Subject = subject
	}

	if expires, err := claims.GetExpirationTime(); err == nil && expires != nil {
		info.ExpiresAt = expires.Time
		info.Expired = expires.Before(i.now())
	}

	return info, nil
}
