package client

import "errors"

var (
	// ErrMissingCredentials is returned when a command needs the server but
	// no login or password is configured.
	ErrMissingCredentials = errors.New("login and password are required")
)
