package usecase

import "errors"

// Sentinel errors the handlers map to HTTP status codes. Anything else that
// escapes a service is surfaced as a generic internal error with no detail.
var (
	ErrEmailTaken           = errors.New("user already exists")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidCredentials   = errors.New("invalid password")
	ErrNotVerified          = errors.New("email not verified")
	ErrCodeInvalidOrExpired = errors.New("invalid or expired code")
)
