package domain

// Record is an opaque handle to one durable telemetry batch awaiting
// delivery. Records are owned by the durable queue; the dispatcher
// borrows one for the duration of a single transmission attempt and must
// hand ownership back by either deleting it or returning it to the
// sendable pool.
type Record struct {
	// Name is the queue-assigned identifier, unique within the queue.
	Name string

	// Path is the location of the serialized payload on disk.
	Path string
}

// IsZero reports whether the record is the zero value (no handle).
func (r Record) IsZero() bool {
	return r.Name == "" && r.Path == ""
}
