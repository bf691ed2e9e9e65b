package auth

import "errors"

var (
	// ErrEmailTaken indicates a registration with an existing email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials indicates a failed login.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUnauthorized indicates an invalid or missing bearer token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidInput indicates malformed registration input.
	ErrInvalidInput = errors.New("invalid auth input")
	// ErrUserNotFound indicates the user doesn't exist.
	ErrUserNotFound = errors.New("user not found")
)
