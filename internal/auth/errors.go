package auth

import "errors"

var (
	// ErrMissingToken means no bearer token was presented.
	ErrMissingToken = errors.New("missing bearer token")
	// ErrMalformed means the token could not be parsed.
	ErrMalformed = errors.New("malformed token")
	// ErrExpired means the signature is valid but the expiry has passed.
	ErrExpired = errors.New("token expired")
	// ErrBadSignature means the token was not signed with our secret.
	ErrBadSignature = errors.New("token signature invalid")
	// ErrUnknownUser means the token names a user that no longer resolves.
	ErrUnknownUser = errors.New("unknown user")
	// ErrInvalidCredentials covers both unknown nickname and wrong password.
	ErrInvalidCredentials = errors.New("invalid nickname or password")
	// ErrWeakPassword wraps the list of failed strength rules.
	ErrWeakPassword = errors.New("password too weak")
)
