package ports

import "github.com/bft-labs/telemship/internal/domain"

// DurableQueue holds serialized telemetry batches as discrete records on
// durable storage. Implementations must tolerate concurrent calls from
// as many goroutines as the dispatcher admits transmissions, and must
// never hand the same record to two concurrent callers.
type DurableQueue interface {
	// NextAvailable reserves and returns one sendable record.
	// Returns false if the queue is empty. A reserved record stays
	// invisible to other callers until Delete or MakeAvailable.
	NextAvailable() (domain.Record, bool)

	// Load returns the record's payload bytes. Empty bytes signal a
	// corrupted or degenerate record.
	Load(rec domain.Record) ([]byte, error)

	// Delete permanently removes the record.
	Delete(rec domain.Record) error

	// MakeAvailable returns the record to the sendable pool for a
	// later attempt.
	MakeAvailable(rec domain.Record)
}
