// Package common defines shared constants and sentinel errors used across
// envault components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Auth errors (invalid or malformed access token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// ErrInvalidOrExpiredToken is the single outward-facing failure for the
	// whole password-reset redemption path. Not found, already used, expired
	// and hash mismatch all collapse into it; the concrete cause stays in
	// server logs.
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
)
