// Package models holds the client-side view of entities returned by the
// auth API.
package models

// User is the profile of the signed-in account as the server reports it.
type User struct {
	ID             int64  `json:"id"`
	Email          string `json:"email"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	EmailConfirmed bool   `json:"email_confirmed"`
}

// DisplayName is "First Last", falling back to the email.
func (u *User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	default:
		return u.Email
	}
}
