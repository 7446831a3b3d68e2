package remote

import "errors"

// Collaborator error kinds. Callers branch on these with errors.Is; the
// wrapped cause carries the transport detail.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyRegistered  = errors.New("user already registered")
	ErrNetworkUnavailable = errors.New("network unavailable")

	ErrNoKey         = errors.New("ai key is not set")
	ErrInvalidKey    = errors.New("ai key was rejected")
	ErrRequestFailed = errors.New("ai request failed")
)
