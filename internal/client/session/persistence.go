// Package session keeps the current bearer token and user profile in durable
// storage so a restarted client can resume the session.
//
// Presence of both records is what "authenticated" means here; whether the
// token is still accepted by the server is only learned on the next API call.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/authkeeper/internal/client/models"
	"github.com/dmitrijs2005/authkeeper/internal/client/storage"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
)

const (
	keyToken = "app_token"
	keyUser  = "app_user"
)

// ErrCorrupted is logged when the stored user record cannot be decoded.
var ErrCorrupted = errors.New("stored session data corrupted")

// Persistence reads and writes the session records on a durable Backend.
type Persistence struct {
	store storage.Backend
	log   logging.Logger
}

func NewPersistence(store storage.Backend, log logging.Logger) *Persistence {
	return &Persistence{store: store, log: log.With("component", "session")}
}

func (p *Persistence) SaveToken(ctx context.Context, token string) error {
	if err := p.store.Set(ctx, keyToken, token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// GetToken returns the stored token. Unreadable storage counts as absent.
func (p *Persistence) GetToken(ctx context.Context) (string, bool) {
	token, ok, err := p.store.Get(ctx, keyToken)
	if err != nil {
		p.log.Error(ctx, "failed to read token", "error", err)
		return "", false
	}
	return token, ok && token != ""
}

func (p *Persistence) SaveUser(ctx context.Context, user *models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := p.store.Set(ctx, keyUser, string(data)); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

// GetUser returns the stored profile or nil. A record that does not decode
// to a non-empty user (including JSON null) is deleted so the next read
// starts clean.
func (p *Persistence) GetUser(ctx context.Context) *models.User {
	raw, ok, err := p.store.Get(ctx, keyUser)
	if err != nil {
		p.log.Error(ctx, "failed to read user", "error", err)
		return nil
	}
	if !ok || raw == "" {
		return nil
	}

	var user models.User
	err = json.Unmarshal([]byte(raw), &user)
	if err == nil && user == (models.User{}) {
		err = errors.New("empty user record")
	}
	if err != nil {
		p.log.Error(ctx, "discarding stored user", "error", errors.Join(ErrCorrupted, err))
		if rmErr := p.store.Remove(ctx, keyUser); rmErr != nil {
			p.log.Error(ctx, "failed to remove corrupted user", "error", rmErr)
		}
		return nil
	}
	return &user
}

// ClearAuth removes both records. Both removals are attempted.
func (p *Persistence) ClearAuth(ctx context.Context) error {
	return errors.Join(
		p.store.Remove(ctx, keyToken),
		p.store.Remove(ctx, keyUser),
	)
}

// IsAuthenticated reports whether a token record and a user record are both
// present. It does not decode or validate either.
func (p *Persistence) IsAuthenticated(ctx context.Context) bool {
	token, ok, err := p.store.Get(ctx, keyToken)
	if err != nil || !ok || token == "" {
		return false
	}
	user, ok, err := p.store.Get(ctx, keyUser)
	return err == nil && ok && user != ""
}
