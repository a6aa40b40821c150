package secrets

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a provider that has no value for a secret.
var ErrNotFound = errors.New("secret not found")

// SecretProvider retrieves secrets from one backend.
type SecretProvider interface {
	// GetSecret retrieves a secret by name. A missing secret yields an
	// error wrapping ErrNotFound so the next provider can be tried.
	GetSecret(ctx context.Context, name string) (string, error)

	// Provider returns the provider name (env, file).
	Provider() string
}

// RefreshableProvider can drop cached values so the next read sees the
// backend's current content.
type RefreshableProvider interface {
	SecretProvider

	// Refresh discards cached values.
	Refresh(ctx context.Context) error
}
