package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/authkeeper/internal/client/models"
)

const maxBodySize = 1 << 20

const (
	pathRegister      = "/api/auth/register"
	pathLogin         = "/api/auth/login"
	pathMe            = "/api/auth/me"
	pathUpdateProfile = "/api/auth/update-profile"
	pathConfirm       = "/api/auth/confirm"
)

// Client is a stateless mapping of the auth endpoints.
type Client struct {
	fetch *Fetcher
}

func NewClient(f *Fetcher) *Client {
	return &Client{fetch: f}
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var out RegisterResponse
	if err := c.public(ctx, pathRegister, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.public(ctx, pathLogin, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Confirm(ctx context.Context, req ConfirmRequest) (*ConfirmResponse, error) {
	var out ConfirmResponse
	if err := c.public(ctx, pathConfirm, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetMe fetches the profile for token. onExpired runs if the token is refused.
func (c *Client) GetMe(ctx context.Context, token string, onExpired func()) (*ProfileResponse, error) {
	return c.profile(ctx, Request{Method: http.MethodGet, Path: pathMe, Token: token}, onExpired, "Failed to get user")
}

// UpdateProfile changes the name fields. onExpired runs if the token is refused.
func (c *Client) UpdateProfile(ctx context.Context, token string, upd ProfileUpdate, onExpired func()) (*ProfileResponse, error) {
	return c.profile(ctx, Request{Method: http.MethodPost, Path: pathUpdateProfile, Body: upd, Token: token}, onExpired, "Failed to update profile")
}

// public posts body to an unauthenticated endpoint and decodes whatever the
// server answered, regardless of status.
func (c *Client) public(ctx context.Context, path string, body, out any) error {
	resp, err := c.fetch.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := decode(resp.Body, out); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrNetwork, path, err)
	}
	return nil
}

// profileEnvelope accepts the user either as "user" or as "data".
type profileEnvelope struct {
	Success bool         `json:"success"`
	User    *models.User `json:"user"`
	Data    *models.User `json:"data"`
	Error   string       `json:"error"`
}

func (c *Client) profile(ctx context.Context, req Request, onExpired func(), fallback string) (*ProfileResponse, error) {
	resp, err := c.fetch.Do(ctx, req, onExpired)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env profileEnvelope
	decodeErr := decode(resp.Body, &env)

	if resp.StatusCode == http.StatusUnauthorized {
		msg := env.Error
		if decodeErr != nil || msg == "" {
			msg = "Session expired"
		}
		return &ProfileResponse{Error: msg, IsAuthError: true}, nil
	}

	if decodeErr != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return &ProfileResponse{Error: fallback}, nil
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrNetwork, req.Path, decodeErr)
	}

	out := &ProfileResponse{Success: env.Success, User: env.User, Error: env.Error}
	if out.User == nil {
		out.User = env.Data
	}
	if !out.Success && out.Error == "" {
		out.Error = fallback
	}
	return out, nil
}

func decode(r io.Reader, out any) error {
	return json.NewDecoder(io.LimitReader(r, maxBodySize)).Decode(out)
}
