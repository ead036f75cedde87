package domain

import "fmt"

// Outcome is the classification of an HTTP status code into the action
// it demands from the dispatcher. Every status code maps to exactly one
// outcome; the sets never overlap.
type Outcome int

const (
	// OutcomeAccepted means the server took the batch. The record is
	// deleted and the dispatcher immediately advances to the next one.
	OutcomeAccepted Outcome = iota

	// OutcomeRetryable means the server or network failed transiently.
	// The record is returned to the sendable pool for a later attempt.
	OutcomeRetryable

	// OutcomeRejected means the request itself is unacceptable to the
	// server; retrying without change is futile. The record is deleted.
	OutcomeRejected
)

// String returns a human-readable representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "Accepted"
	case OutcomeRetryable:
		return "Retryable"
	case OutcomeRejected:
		return "Rejected"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Deletes reports whether the outcome terminates the record.
// Deletion and release are mutually exclusive and exhaustive: every
// resolved attempt ends in exactly one of the two.
func (o Outcome) Deletes() bool {
	return o != OutcomeRetryable
}

// Classify maps an HTTP status code to its outcome.
//
// 200, 201 and 202 are accepted. 408 (request timeout), 429 (too many
// requests), 500, 503 and 511 indicate a transient server or network
// side failure and are retried. Everything else, including the rest of
// the 2xx range, is treated as a permanent rejection.
func Classify(status int) Outcome {
	switch {
	case status >= 200 && status <= 202:
		return OutcomeAccepted
	case status == 408, status == 429, status == 500, status == 503, status == 511:
		return OutcomeRetryable
	default:
		return OutcomeRejected
	}
}
