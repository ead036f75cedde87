// Package fs implements the DurableQueue port on the local file system.
package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bft-labs/telemship/internal/domain"
	"github.com/bft-labs/telemship/pkg/log"
)

const (
	recordExt = ".json"
	tmpExt    = ".tmp"
)

// Queue stores each telemetry batch as one file in a directory.
// File names start with the enqueue timestamp in unix nanoseconds, so
// lexical order is oldest-first and NextAvailable drains roughly FIFO.
type Queue struct {
	dir        string
	maxRecords int
	logger     log.Logger
	notify     func()

	mu       sync.Mutex
	reserved map[string]struct{}
}

// QueueOption configures optional behavior of the queue.
type QueueOption func(*Queue)

// WithMaxRecords caps the number of pending records; Enqueue returns
// domain.ErrQueueFull beyond the cap. Zero means unbounded.
func WithMaxRecords(n int) QueueOption {
	return func(q *Queue) {
		q.maxRecords = n
	}
}

// WithNotify registers a callback fired after each successful Enqueue.
// The dispatcher uses it as its queue-non-empty trigger.
func WithNotify(fn func()) QueueOption {
	return func(q *Queue) {
		q.notify = fn
	}
}

// NewQueue creates a queue rooted at dir, creating it if needed.
func NewQueue(dir string, logger log.Logger, opts ...QueueOption) (*Queue, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("queue dir: %w", err)
	}

	q := &Queue{
		dir:      dir,
		logger:   logger,
		reserved: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q, nil
}

// Enqueue persists a payload as a new record and returns its handle.
// The write is atomic (temp file, then rename) so a crash never leaves
// a half-written record visible to NextAvailable.
func (q *Queue) Enqueue(payload []byte) (domain.Record, error) {
	if q.maxRecords > 0 {
		pending, err := q.Pending()
		if err != nil {
			return domain.Record{}, err
		}
		if pending >= q.maxRecords {
			return domain.Record{}, domain.ErrQueueFull
		}
	}

	name := fmt.Sprintf("%d-%s%s", time.Now().UnixNano(), uuid.NewString(), recordExt)
	path := filepath.Join(q.dir, name)
	tmp := path + tmpExt

	if err := os.WriteFile(tmp, payload, 0o600); err != nil {
		return domain.Record{}, fmt.Errorf("write record: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return domain.Record{}, fmt.Errorf("commit record: %w", err)
	}

	rec := domain.Record{Name: name, Path: path}
	if q.notify != nil {
		q.notify()
	}
	return rec, nil
}

// NextAvailable reserves and returns the oldest sendable record.
// Reserved records are invisible to other callers until Delete or
// MakeAvailable hands them back.
func (q *Queue) NextAvailable() (domain.Record, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	names, err := q.listLocked()
	if err != nil {
		q.logger.Warn("queue scan failed", log.Err(err))
		return domain.Record{}, false
	}

	for _, name := range names {
		if _, held := q.reserved[name]; held {
			continue
		}
		q.reserved[name] = struct{}{}
		return domain.Record{Name: name, Path: filepath.Join(q.dir, name)}, true
	}
	return domain.Record{}, false
}

// Load returns the record's payload bytes.
func (q *Queue) Load(rec domain.Record) ([]byte, error) {
	data, err := os.ReadFile(rec.Path)
	if err != nil {
		return nil, fmt.Errorf("load record: %w", err)
	}
	return data, nil
}

// Delete permanently removes the record.
// If the remove fails the record stays reserved, so a file that
// survived a failed delete cannot be handed out and sent twice.
func (q *Queue) Delete(rec domain.Record) error {
	if err := os.Remove(rec.Path); err != nil && !os.IsNotExist(err) {
		q.logger.Warn("delete record failed", log.String("record", rec.Name), log.Err(err))
		return fmt.Errorf("delete record: %w", err)
	}

	q.mu.Lock()
	delete(q.reserved, rec.Name)
	q.mu.Unlock()
	return nil
}

// MakeAvailable returns a reserved record to the sendable pool.
func (q *Queue) MakeAvailable(rec domain.Record) {
	q.mu.Lock()
	delete(q.reserved, rec.Name)
	q.mu.Unlock()
}

// Pending returns the number of records on disk, reserved or not.
func (q *Queue) Pending() (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	names, err := q.listLocked()
	if err != nil {
		return 0, err
	}
	return len(names), nil
}

// Oldest returns up to n record handles in oldest-first order without
// reserving them. Used by the cleanup runner.
func (q *Queue) Oldest(n int) ([]domain.Record, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	names, err := q.listLocked()
	if err != nil {
		return nil, err
	}
	if n > 0 && len(names) > n {
		names = names[:n]
	}

	recs := make([]domain.Record, 0, len(names))
	for _, name := range names {
		if _, held := q.reserved[name]; held {
			continue
		}
		recs = append(recs, domain.Record{Name: name, Path: filepath.Join(q.dir, name)})
	}
	return recs, nil
}

// TotalBytes returns the combined size of all records on disk.
func (q *Queue) TotalBytes() (int64, error) {
	q.mu.Lock()
	names, err := q.listLocked()
	q.mu.Unlock()
	if err != nil {
		return 0, err
	}

	var total int64
	for _, name := range names {
		info, err := os.Stat(filepath.Join(q.dir, name))
		if err != nil {
			continue
		}
		total += info.Size()
	}
	return total, nil
}

// listLocked returns the record file names sorted oldest-first.
// Caller must hold q.mu.
func (q *Queue) listLocked() ([]string, error) {
	entries, err := os.ReadDir(q.dir)
	if err != nil {
		return nil, fmt.Errorf("read queue dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), recordExt) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}
