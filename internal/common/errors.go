package common

import "errors"

var (
	// repository specific errors
	ErrNotFound = errors.New("not found")

	// service specific errors
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")
)
