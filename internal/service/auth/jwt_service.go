// Package auth verifies bearer tokens minted by the external identity
// service. Users are managed elsewhere; this service only needs the
// authenticated user id.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JWTService validates and, for development tooling, mints access tokens.
type JWTService interface {
	// ValidateToken verifies the signature and time claims of tokenString and
	// returns the caller's claims.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// GenerateToken signs an access token for userID valid for lifetime.
	GenerateToken(ctx context.Context, userID uuid.UUID, lifetime time.Duration) (string, error)
}

// Claims is the validated identity carried by a token.
type Claims struct {
	UserID    uuid.UUID
	Subject   string
	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}
