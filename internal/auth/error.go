package auth

import "errors"

var (
	// -- Token --
	ErrInvalidToken = errors.New("invalid auth token")
	ErrNoUserID     = errors.New("auth token carries no user id")

	// -- Session --
	ErrNotAuthenticated = errors.New("user not authenticated")
)
