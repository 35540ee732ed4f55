package storage

import (
	"context"
	"errors"
)

var (
	// ErrUnavailable marks a backend that refused a read or write.
	ErrUnavailable = errors.New("storage unavailable")

	// ErrVaultUnavailable is returned by a CredentialVault without a device secret.
	ErrVaultUnavailable = errors.New("credential vault unavailable")
)

// Backend is an opaque string key/value store.
type Backend interface {
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Get returns the value and true, or "" and false when key is absent.
	Get(ctx context.Context, key string) (string, bool, error)
	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}
