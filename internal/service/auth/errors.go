package auth

import "errors"

// Errors returned by ValidateToken. The middleware maps each to a 401 message.
var (
	ErrInvalidToken     = errors.New("invalid authentication token")
	ErrExpiredToken     = errors.New("authentication token has expired")
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")
	ErrMissingToken     = errors.New("authentication token is missing")

	// ErrMissingUserID means the token verified but names no player.
	ErrMissingUserID = errors.New("authentication token has no user id")
)
