package credentials

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/authkeeper/internal/client/storage"
)

// Platform selects the backend chain of a Store.
type Platform string

const (
	PlatformNative Platform = "native"
	PlatformWeb    Platform = "web"
)

// ParsePlatform validates a platform name from configuration.
func ParsePlatform(s string) (Platform, error) {
	switch p := Platform(s); p {
	case PlatformNative, PlatformWeb:
		return p, nil
	default:
		return "", fmt.Errorf("unknown platform %q: want %q or %q", s, PlatformNative, PlatformWeb)
	}
}

// Credentials is a remembered login. Nil fields mean "not stored".
// Password is only ever set when the record came from a secure tier.
type Credentials struct {
	Email      *string
	Password   *string
	RememberMe bool
}

// CredentialManager is the store/get credential API of the web platform.
// *storage.CredentialVault implements it.
type CredentialManager interface {
	Available() bool
	Store(ctx context.Context, cred storage.PasswordCredential) error
	Get(ctx context.Context, req storage.CredentialRequest) (*storage.PasswordCredential, error)
	Remove(ctx context.Context) error
}

const (
	keyEmail    = "user_email"
	keyPassword = "user_password"
	keyRemember = "remember_credentials"

	rememberFull      = "true"
	rememberEmailOnly = "email_only"
)

func ptr(s string) *string {
	return &s
}
