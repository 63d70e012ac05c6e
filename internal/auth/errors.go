package auth

import "errors"

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrDuplicateEmail is returned when the email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrUnauthorized rejects a request without a usable access token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound means the resource is absent or not owned by the caller.
	ErrNotFound = errors.New("not found")
	// ErrInvalidToken is returned by TokenCodec.Verify for any bad envelope.
	ErrInvalidToken = errors.New("invalid token")
)
