// Package common defines shared constants and sentinel errors used across
// client and mock-server layers of Botfolio. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Validation errors, raised by form checks or answered by the API with 400.
	ErrValidation = errors.New("validation error")

	// Auth errors (invalid, malformed or expired token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Entitlement errors.
	ErrQuotaExceeded = errors.New("quota exceeded")
)
