package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo is what a bearer token says about itself. It is read without
// verifying the signature and must not be used to decide validity.
type TokenInfo struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// DescribeToken decodes the claims of a JWT bearer token. Opaque tokens
// yield an error.
func DescribeToken(token string) (TokenInfo, error) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return TokenInfo{}, fmt.Errorf("describe token: %w", err)
	}

	info := TokenInfo{Subject: claims.Subject}
	if claims.IssuedAt != nil {
		info.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}
