package domain

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnsupported marks operations the configured backend cannot perform.
	ErrUnsupported = errors.New("operation not supported")
)
