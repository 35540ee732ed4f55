package api

import "github.com/dmitrijs2005/authkeeper/internal/client/models"

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ConfirmRequest struct {
	AccessToken string `json:"access_token"`
	Type        string `json:"type"`
}

type ProfileUpdate struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type LoginResponse struct {
	Success bool         `json:"success"`
	Token   string       `json:"token,omitempty"`
	User    *models.User `json:"user,omitempty"`
	Error   string       `json:"error,omitempty"`
}

type RegisterResponse struct {
	Success bool         `json:"success"`
	User    *models.User `json:"user,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// ProfileResponse answers the authenticated profile endpoints. IsAuthError
// is set when the server rejected the token.
type ProfileResponse struct {
	Success     bool         `json:"success"`
	User        *models.User `json:"user,omitempty"`
	Error       string       `json:"error,omitempty"`
	IsAuthError bool         `json:"-"`
}

type ConfirmResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
