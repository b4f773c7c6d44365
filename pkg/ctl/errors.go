package ctl

import "errors"

// Errors returned by the control layer.
var (
	// ErrNotFound is returned when an element lookup misses.
	ErrNotFound = errors.New("control element not found")

	// ErrWouldBlock is returned by Transport.NextEvent when no event is
	// pending. It terminates the HandleEvents drain loop.
	ErrWouldBlock = errors.New("no event pending")

	// ErrBusy is returned when a transport is attached twice.
	ErrBusy = errors.New("transport already attached")

	// ErrInvalidArgument is returned for caller contract violations that
	// are recoverable (bad ranges, zero counts).
	ErrInvalidArgument = errors.New("invalid argument")
)
