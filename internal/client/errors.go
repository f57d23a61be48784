package client

import "errors"

var (
	// ErrTimeout is returned when no matching response arrives within the
	// request timeout.
	ErrTimeout = errors.New("request timed out")
	// ErrNotReady is returned when the session does not reach the
	// Registered state within the ready timeout.
	ErrNotReady = errors.New("socket not ready")
	// ErrClosed is returned for requests that were in flight when the
	// connection dropped.
	ErrClosed = errors.New("connection closed")
)
