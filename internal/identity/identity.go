// Package identity talks to the external identity provider that owns
// passwords and email verification. The local users table only mirrors
// profile data; nothing here keeps the two in sync.
package identity

import (
	"context"
	"errors"
)

var (
	ErrNotConfigured = errors.New("identity provider is not configured")
	ErrRejected      = errors.New("identity provider rejected the request")
)

type Provider interface {
	SignUp(ctx context.Context, email, password, name string) error
	ConfirmSignUp(ctx context.Context, email, code string) error
	// Authenticate returns the provider's access token.
	Authenticate(ctx context.Context, email, password string) (string, error)
}

// Unconfigured is used when no client id is set. Every call fails with
// ErrNotConfigured.
type Unconfigured struct{}

func (Unconfigured) SignUp(context.Context, string, string, string) error {
	return ErrNotConfigured
}

func (Unconfigured) ConfirmSignUp(context.Context, string, string) error {
	return ErrNotConfigured
}

func (Unconfigured) Authenticate(context.Context, string, string) (string, error) {
	return "", ErrNotConfigured
}
