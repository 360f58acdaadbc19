// Package common defines shared constants and sentinel errors used across
// the client layers of gymclient. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Validation errors.
	ErrEmptyEmail    = errors.New("email is required")
	ErrEmptyPassword = errors.New("password is required")
	ErrInvalidDate   = errors.New("invalid date, use YYYY-MM-DD")
	ErrInvalidID     = errors.New("id must be a positive number")

	// Token inspection errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrNoExpiry     = errors.New("token has no expiry")
)
