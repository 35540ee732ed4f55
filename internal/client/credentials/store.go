package credentials

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/authkeeper/internal/client/storage"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
)

// Backends carries the storage a Store may use. Only the fields of the
// chosen platform are consulted.
type Backends struct {
	Secure      storage.Backend   // native, primary
	Preferences storage.Backend   // native, email only
	Vault       CredentialManager // web, primary
	Session     storage.Backend   // web, email only
}

// Store is the remember-me facade. It is safe to share for the lifetime of
// the client.
type Store struct {
	platform Platform
	chain    chain
	log      logging.Logger
}

// New builds a Store for platform. The platform cannot be changed later.
func New(platform Platform, b Backends, log logging.Logger) (*Store, error) {
	log = log.With("component", "credentials", "platform", string(platform))

	var c chain
	switch platform {
	case PlatformNative:
		if b.Secure == nil || b.Preferences == nil {
			return nil, errors.New("native platform needs secure and preferences backends")
		}
		c = &nativeChain{secure: b.Secure, fallback: emailOnly{b: b.Preferences, log: log}, log: log}
	case PlatformWeb:
		if b.Vault == nil || b.Session == nil {
			return nil, errors.New("web platform needs vault and session backends")
		}
		c = &webChain{vault: b.Vault, fallback: emailOnly{b: b.Session, log: log}, log: log}
	default:
		_, err := ParsePlatform(string(platform))
		return nil, err
	}

	return &Store{platform: platform, chain: c, log: log}, nil
}

// Platform reports the platform chosen at construction.
func (s *Store) Platform() Platform {
	return s.platform
}

// SetCredentials remembers email and password when rememberMe is set and
// forgets any stored login otherwise.
func (s *Store) SetCredentials(ctx context.Context, email, password string, rememberMe bool) {
	if !rememberMe {
		s.ClearCredentials(ctx)
		return
	}
	s.chain.save(ctx, email, password)
}

// GetCredentials returns the best remembered login, or the zero value.
func (s *Store) GetCredentials(ctx context.Context) Credentials {
	return s.chain.load(ctx)
}

// ClearCredentials forgets the login on every tier.
func (s *Store) ClearCredentials(ctx context.Context) {
	s.chain.clear(ctx)
	s.log.Debug(ctx, "credentials cleared")
}

// HasRememberedCredentials reports whether at least an email is remembered.
func (s *Store) HasRememberedCredentials(ctx context.Context) bool {
	return s.GetCredentials(ctx).Email != nil
}
