package domain

import "errors"

// Domain errors represent error conditions in the telemship domain.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrAlreadyRunning is returned when Start() is called on a running instance.
	ErrAlreadyRunning = errors.New("telemship: already running")

	// ErrNotRunning is returned when Stop() is called on a stopped instance.
	ErrNotRunning = errors.New("telemship: not running")

	// ErrShutdownTimeout is returned when graceful shutdown times out.
	ErrShutdownTimeout = errors.New("telemship: shutdown timeout")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("telemship: invalid configuration")

	// ErrQueueFull is returned by Enqueue when the durable queue has
	// reached its configured record limit.
	ErrQueueFull = errors.New("telemship: queue full")
)
