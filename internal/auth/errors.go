package auth

import "errors"

var (
	// ErrNotFound indicates no user record matched the lookup.
	ErrNotFound = errors.New("auth: user not found")
	// ErrEmailTaken indicates a registration attempt against an existing
	// email, whether caught by the pre-check or by the unique constraint.
	ErrEmailTaken = errors.New("auth: email already registered")
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
)
