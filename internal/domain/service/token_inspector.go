package service

import "time"

// TokenInfo is the advisory content of a bearer credential. The client
// never verifies signatures; the remote API is the only authority on
// validity, so this is used for logging and display only.
type TokenInfo struct {
	Subject   string
	ExpiresAt time.Time
	Expired   bool
}

// TokenInspector reads the advisory claims out of an opaque bearer
// credential without validating it.
type TokenInspector interface {
	Inspect(credential string) (*TokenInfo, error)
}
