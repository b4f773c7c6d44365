package mixer

import "errors"

// Errors returned by the mixer layer.
var (
	// ErrNotFound is returned when a simple element lookup misses.
	ErrNotFound = errors.New("mixer element not found")

	// ErrUnsupported is returned by façade operations when the element
	// lacks the required capability.
	ErrUnsupported = errors.New("operation not supported by element")

	// ErrInvalidArgument is returned for recoverable caller mistakes
	// (bad ranges, removing an element that is not registered).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnknownBackend is returned by Open for an unregistered backend
	// type string.
	ErrUnknownBackend = errors.New("unknown mixer backend")
)
