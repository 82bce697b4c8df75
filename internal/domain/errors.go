package domain

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrDeliveryFailed        = errors.New("event delivery failed")
	ErrMalformedMessage      = errors.New("malformed message")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
