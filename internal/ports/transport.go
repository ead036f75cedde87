package ports

import "context"

// Transport performs one network round-trip for one record payload.
// Implementations own the connection lifecycle up to the point a status
// code is obtained; everything opened for the request must be released
// when the returned Response is closed.
type Transport interface {
	// Send transmits the payload and returns the server's response.
	// A non-nil error means the transport failed before any status
	// code was obtained (connection refused, timeout, DNS failure);
	// in that case no Response is returned and nothing needs closing.
	Send(ctx context.Context, payload []byte) (Response, error)
}

// Response is the server's reply to one delivery attempt.
// The caller must Close it on every path once the attempt is resolved.
type Response interface {
	// StatusCode returns the HTTP status code.
	StatusCode() int

	// Detail returns a best-effort human-readable response body for
	// diagnostics. Read failures are absorbed; the result falls back
	// to the status line when no body is available. Call at most once.
	Detail() string

	// Close releases the underlying connection resources.
	Close() error
}
