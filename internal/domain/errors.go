package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrUserUnresolved indicates no identity could be resolved from a response
	ErrUserUnresolved = errors.New("could not resolve user from response")

	// ErrMovieNotFound indicates the requested movie does not exist
	ErrMovieNotFound = errors.New("movie not found")
)
