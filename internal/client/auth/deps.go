package auth

import (
	"context"

	"github.com/dmitrijs2005/authkeeper/internal/client/api"
	"github.com/dmitrijs2005/authkeeper/internal/client/credentials"
	"github.com/dmitrijs2005/authkeeper/internal/client/models"
)

// AuthAPI is the remote side of the session. *api.Client implements it.
type AuthAPI interface {
	Register(ctx context.Context, req api.RegisterRequest) (*api.RegisterResponse, error)
	Login(ctx context.Context, req api.LoginRequest) (*api.LoginResponse, error)
	GetMe(ctx context.Context, token string, onExpired func()) (*api.ProfileResponse, error)
	UpdateProfile(ctx context.Context, token string, upd api.ProfileUpdate, onExpired func()) (*api.ProfileResponse, error)
	Confirm(ctx context.Context, req api.ConfirmRequest) (*api.ConfirmResponse, error)
}

// SessionStore is the durable copy of the session. *session.Persistence
// implements it.
type SessionStore interface {
	SaveToken(ctx context.Context, token string) error
	GetToken(ctx context.Context) (string, bool)
	SaveUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context) *models.User
	ClearAuth(ctx context.Context) error
	IsAuthenticated(ctx context.Context) bool
}

// CredentialStore remembers logins. *credentials.Store implements it.
type CredentialStore interface {
	SetCredentials(ctx context.Context, email, password string, rememberMe bool)
	GetCredentials(ctx context.Context) credentials.Credentials
	ClearCredentials(ctx context.Context)
}

// Navigator exposes where the user is and a hard redirect used when no
// navigation callback is registered.
type Navigator interface {
	CurrentPath() string
	Redirect(path string)
}
