package orderapi

import "errors"

var (
	// ErrInvalidRequest is returned when the request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrOrderRejected is returned when the order service refuses the order
	ErrOrderRejected = errors.New("order rejected")

	// ErrNetworkError is returned when there's a network communication error
	ErrNetworkError = errors.New("network error")

	// ErrServiceUnavailable is returned for 5xx answers
	ErrServiceUnavailable = errors.New("order service unavailable")
)
